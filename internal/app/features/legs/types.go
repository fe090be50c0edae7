// internal/app/features/legs/types.go
package legs

type moveInput struct {
	ChildID string `json:"child_id" validate:"required"`
	Target  string `json:"target" validate:"required"`
}

// carInput is validated by the engine so that a bad capacity reports
// invalid_capacity rather than a generic field error.
type carInput struct {
	Driver   string `json:"driver" validate:"max=80"`
	Capacity int    `json:"capacity"`
}

type childInput struct {
	Name string `json:"name" validate:"max=80"`
}
