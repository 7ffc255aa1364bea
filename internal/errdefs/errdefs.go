// Package errdefs defines the closed set of error kinds shared by the state
// store, the profile registry, the shim installer, and the launcher. Errors
// carry structured context (alias, profile, key, path) instead of
// pre-formatted text; callers render them as "<kind>: <message>".
package errdefs

import (
	"errors"
	"fmt"
)

// Kind classifies an error. The set is closed: every failure surfaced by
// this module maps to exactly one kind.
type Kind int

const (
	KindNone Kind = iota
	KindIO
	KindParse
	KindInvalidState
	KindAppNotFound
	KindProfileNotFound
	KindPermission
	KindInstallPath
	KindMissingLauncher
	KindTargetNotFound
)

// String returns the stable wire name of the kind, matching the persisted
// state document's error vocabulary.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io_error"
	case KindParse:
		return "json_error"
	case KindInvalidState:
		return "invalid_state"
	case KindAppNotFound:
		return "app_not_found"
	case KindProfileNotFound:
		return "profile_not_found"
	case KindPermission:
		return "permission_error"
	case KindInstallPath:
		return "install_path_error"
	case KindMissingLauncher:
		return "missing_launcher"
	case KindTargetNotFound:
		return "target_not_found"
	}
	return "unknown"
}

// Error is the single error type crossing package boundaries. App, Profile,
// Key, and Path hold whichever context the kind calls for; Detail carries a
// short fixed phrase chosen by the constructor; Err wraps an underlying
// cause when one exists.
type Error struct {
	Kind    Kind
	App     string
	Profile string
	Key     string
	Path    string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Err != nil && e.Detail != "" {
		msg = fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or KindNone if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IO wraps a filesystem or process failure.
func IO(detail string, err error) *Error {
	return &Error{Kind: KindIO, Detail: detail, Err: err}
}

// Parse wraps a state-document decode or encode failure.
func Parse(detail string, err error) *Error {
	return &Error{Kind: KindParse, Detail: detail, Err: err}
}

// InvalidState reports a structurally invalid input or state field.
func InvalidState(detail string) *Error {
	return &Error{Kind: KindInvalidState, Detail: detail}
}

// BlankTarget reports an app whose target_binary is empty.
func BlankTarget(app string) *Error {
	return &Error{
		Kind:   KindInvalidState,
		App:    app,
		Detail: fmt.Sprintf("app %q is missing target_binary", app),
	}
}

// DuplicateProfile reports a clone destination that already exists.
func DuplicateProfile(app, profile string) *Error {
	return &Error{
		Kind:    KindInvalidState,
		App:     app,
		Profile: profile,
		Detail:  fmt.Sprintf("target profile %q already exists", profile),
	}
}

// KeyNotFound reports removal of an env binding that is not present.
func KeyNotFound(app, profile, key string) *Error {
	return &Error{
		Kind:    KindInvalidState,
		App:     app,
		Profile: profile,
		Key:     key,
		Detail:  fmt.Sprintf("environment key %q not found in profile %q", key, profile),
	}
}

// AppNotFound reports an unregistered alias.
func AppNotFound(app string) *Error {
	return &Error{
		Kind:   KindAppNotFound,
		App:    app,
		Detail: fmt.Sprintf("app %q is not registered", app),
	}
}

// ProfileNotFound reports a missing profile on a registered app.
func ProfileNotFound(app, profile string) *Error {
	return &Error{
		Kind:    KindProfileNotFound,
		App:     app,
		Profile: profile,
		Detail:  fmt.Sprintf("profile %q not found for app %q", profile, app),
	}
}

// Permission wraps an access-denied filesystem failure.
func Permission(detail string, err error) *Error {
	return &Error{Kind: KindPermission, Detail: detail, Err: err}
}

// InstallPath reports a failure to determine or create an install location.
func InstallPath(detail string, err error) *Error {
	return &Error{Kind: KindInstallPath, Detail: detail, Err: err}
}

// MissingLauncher reports an absent launcher binary at path.
func MissingLauncher(path string) *Error {
	return &Error{
		Kind:   KindMissingLauncher,
		Path:   path,
		Detail: fmt.Sprintf("launcher not found at %s", path),
	}
}

// TargetNotFound reports an unresolvable target binary.
func TargetNotFound(target, detail string) *Error {
	return &Error{Kind: KindTargetNotFound, Path: target, Detail: detail}
}
