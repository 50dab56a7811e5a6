package form

import (
	"github.com/blues/arbigrants/internal/model"
)

// State 表单状态
type State int

const (
	Collecting State = iota
	Submitted
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Submitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Session 单次请求的表单状态。校验通过后进入 Submitted，
// 待提交记录通过 Take 交出一次后即清空。
type Session struct {
	state   State
	pending *model.ProjectSubmission
}

func NewSession() *Session {
	return &Session{state: Collecting}
}

func (s *Session) State() State {
	return s.state
}

// Submit 校验失败时保持 Collecting 并返回 *ValidationError
func (s *Session) Submit(in Input) error {
	if s.state == Submitted {
		return ErrAlreadySubmitted
	}

	sub, err := Validate(in)
	if err != nil {
		return err
	}

	s.pending = sub
	s.state = Submitted
	return nil
}

// Take 交出待提交记录并清空，提交成功与否都不会再次交出
func (s *Session) Take() (*model.ProjectSubmission, bool) {
	sub := s.pending
	s.pending = nil
	return sub, sub != nil
}
