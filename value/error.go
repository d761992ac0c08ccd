package value

// ErrorValue is the captured failure value produced by exec! and
// inspected from Joy code via error-kind, error-message, and error-data.
type ErrorValue struct {
	KindName string
	Message  string
	Token    string // offending lexeme, if any
	Op       *Operation
	Meta     Meta
}

func (*ErrorValue) Kind() Kind { return KindError }

func (e *ErrorValue) String() string {
	return e.KindName + ": " + e.Message
}

// Data returns the fields the error-data operator exposes to Joy code,
// as a Dict.
func (e *ErrorValue) Data() *Dict {
	d := NewDict()
	d.Set(Symbol("kind"), String(e.KindName))
	d.Set(Symbol("message"), String(e.Message))
	if e.Token != "" {
		d.Set(Symbol("token"), String(e.Token))
	}
	if e.Op != nil {
		d.Set(Symbol("operation"), String(e.Op.Name))
	}
	if e.Meta.Filename != "" {
		d.Set(Symbol("file"), String(e.Meta.Filename))
		d.Set(Symbol("line"), NewInt(int64(e.Meta.StartLine)))
	}
	return d
}
