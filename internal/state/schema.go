package state

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/state.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// CheckResult contains the outcome of a schema check of a raw state
// document. Schema issues are advisory: Load tolerates anything Decode can
// read, the check exists for doctor-style diagnostics of hand-edited files.
type CheckResult struct {
	Valid  bool
	Issues []CheckIssue
}

// CheckIssue is a single schema violation.
type CheckIssue struct {
	Path    string // instance location, e.g. "/apps/tool/profiles/work"
	Message string
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("state.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("state.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// CheckDocument validates raw state JSON against the embedded schema.
// The error return is for schema compilation or JSON parse failures;
// violations come back in the CheckResult.
func CheckDocument(data []byte) (*CheckResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing state document: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &CheckResult{Valid: true}, nil
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []CheckIssue
	collectIssues(validationErr, &issues)
	if len(issues) == 0 {
		issues = []CheckIssue{{Message: validationErr.Error()}}
	}
	return &CheckResult{Valid: false, Issues: issues}, nil
}

// collectIssues walks the error tree and keeps leaf errors that name a
// concrete instance location; container keywords like anyOf are skipped.
func collectIssues(ve *jsonschema.ValidationError, issues *[]CheckIssue) {
	if len(ve.Causes) == 0 {
		keyword := ""
		if ve.ErrorKind != nil {
			kwPath := ve.ErrorKind.KeywordPath()
			if len(kwPath) > 0 {
				keyword = kwPath[len(kwPath)-1]
			}
		}
		if keyword == "anyOf" || keyword == "oneOf" || keyword == "$ref" || keyword == "" {
			return
		}
		path := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			path = ""
		}
		msg := ""
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		*issues = append(*issues, CheckIssue{Path: path, Message: msg})
		return
	}
	for _, cause := range ve.Causes {
		collectIssues(cause, issues)
	}
}
