package plugin

import (
	"errors"
	"fmt"
)

// RegistryErrorCode categorizes registration failures.
type RegistryErrorCode string

const (
	// ErrCodeDuplicateName indicates a plugin with the same name is already
	// registered.
	ErrCodeDuplicateName RegistryErrorCode = "DUPLICATE_NAME"

	// ErrCodeInvalidPlugin indicates the plugin is malformed: nil, missing
	// name or version, or carrying an unknown type.
	ErrCodeInvalidPlugin RegistryErrorCode = "INVALID_PLUGIN"
)

// RegistryError is a registration failure raised synchronously to the
// caller. Activation failures (install/uninstall/hook) are never surfaced as
// errors; they are recovered and logged.
type RegistryError struct {
	Code       RegistryErrorCode
	PluginName string
	Message    string
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	if e.PluginName != "" {
		return fmt.Sprintf("%s: %s (plugin=%s)", e.Code, e.Message, e.PluginName)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsDuplicateName reports whether err is a duplicate-name registration error.
// Uses errors.As to handle wrapped errors.
func IsDuplicateName(err error) bool {
	var re *RegistryError
	return errors.As(err, &re) && re.Code == ErrCodeDuplicateName
}

// IsInvalidPlugin reports whether err is a malformed-plugin registration
// error. Uses errors.As to handle wrapped errors.
func IsInvalidPlugin(err error) bool {
	var re *RegistryError
	return errors.As(err, &re) && re.Code == ErrCodeInvalidPlugin
}

// Validate checks the plugin shape once, at registration time.
func Validate(p Plugin) error {
	if p == nil {
		return &RegistryError{Code: ErrCodeInvalidPlugin, Message: "plugin is nil"}
	}
	if p.Name() == "" {
		return &RegistryError{Code: ErrCodeInvalidPlugin, Message: "plugin name is empty"}
	}
	if p.Version() == "" {
		return &RegistryError{
			Code:       ErrCodeInvalidPlugin,
			PluginName: p.Name(),
			Message:    "plugin version is empty",
		}
	}
	if !p.Type().Valid() {
		return &RegistryError{
			Code:       ErrCodeInvalidPlugin,
			PluginName: p.Name(),
			Message:    fmt.Sprintf("unknown plugin type %q", p.Type()),
		}
	}
	return nil
}
