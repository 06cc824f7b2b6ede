package errors

import (
	stderrors "errors"

	"connectrpc.com/connect"
)

// Metadata keys carried on Connect errors so clients can tell kinds apart
// without parsing messages.
const (
	MetaCode  = "Groupsplit-Error-Code"
	MetaField = "Groupsplit-Error-Field"
)

// ConnectCode maps domain codes to Connect status codes.
func (c Code) ConnectCode() connect.Code {
	switch c {
	case CodeValidation:
		return connect.CodeInvalidArgument
	case CodeNotFound:
		return connect.CodeNotFound
	case CodeConstraint:
		return connect.CodeFailedPrecondition
	case CodeConflict:
		return connect.CodeAlreadyExists
	case CodeTimeout:
		return connect.CodeDeadlineExceeded
	case CodeUnavailable:
		return connect.CodeUnavailable
	default:
		return connect.CodeInternal
	}
}

// ToConnect converts err into a Connect error carrying the domain code and
// field as metadata. A Connect error passes through unchanged.
func ToConnect(err error) *connect.Error {
	if err == nil {
		return nil
	}
	if ce, ok := err.(*connect.Error); ok {
		return ce
	}

	code := CodeOf(err)
	ce := connect.NewError(code.ConnectCode(), err)
	if code != CodeUnknown {
		ce.Meta().Set(MetaCode, string(code))
	}
	if field := FieldOf(err); field != "" {
		ce.Meta().Set(MetaField, field)
	}
	return ce
}

// FromConnect recovers the domain code and field from a Connect error
// returned to a client.
func FromConnect(err error) (Code, string) {
	var ce *connect.Error
	if !stderrors.As(err, &ce) {
		return CodeOf(err), FieldOf(err)
	}
	code := Code(ce.Meta().Get(MetaCode))
	if code == "" {
		code = CodeUnknown
	}
	return code, ce.Meta().Get(MetaField)
}
