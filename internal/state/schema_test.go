package state

import "testing"

func TestCheckDocumentAcceptsCanonicalAndLegacyShapes(t *testing.T) {
	docs := map[string]string{
		"canonical": `{"apps": {"tool": {
		  "installed": false,
		  "target_binary": "tool-bin",
		  "install_path": null,
		  "active_profile": "default",
		  "profiles": {"default": {"env": {"K": "V"}, "args": ["-x"]}}
		}}}`,
		"legacy profile": `{"apps": {"tool": {
		  "target_binary": "tool-bin",
		  "profiles": {"old": {"K": "V"}}
		}}}`,
		"unknown fields": `{"apps": {}, "future": {"flag": true}}`,
		"empty":          `{}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			result, err := CheckDocument([]byte(doc))
			if err != nil {
				t.Fatalf("CheckDocument: %v", err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got issues: %+v", result.Issues)
			}
		})
	}
}

func TestCheckDocumentFlagsTypeViolations(t *testing.T) {
	doc := `{"apps": {"tool": {
	  "installed": "yes",
	  "target_binary": 7
	}}}`

	result, err := CheckDocument([]byte(doc))
	if err != nil {
		t.Fatalf("CheckDocument: %v", err)
	}
	if result.Valid {
		t.Fatal("expected schema violations")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
	for _, issue := range result.Issues {
		if issue.Path == "" && issue.Message == "" {
			t.Errorf("issue missing context: %+v", issue)
		}
	}
}
