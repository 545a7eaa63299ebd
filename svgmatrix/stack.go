package svgmatrix

import "errors"

// ErrUnbalanced is returned when popping an empty Stack.
var ErrUnbalanced = errors.New("unbalanced matrix stack")

// Stack keeps one current matrix per nesting level.
// The zero value is usable and starts at the identity.
type Stack struct {
	saved   []Matrix2D
	current *Matrix2D
}

// Current returns the matrix of the innermost level.
func (s *Stack) Current() Matrix2D {
	if s.current == nil {
		return Identity
	}
	return *s.current
}

// Depth returns the number of open levels.
func (s *Stack) Depth() int { return len(s.saved) }

// Push saves the current matrix, so that it will be
// restored by the matching Pop.
func (s *Stack) Push() {
	s.saved = append(s.saved, s.Current())
}

// Pop restores the matrix saved by the last Push.
func (s *Stack) Pop() error {
	if len(s.saved) == 0 {
		return ErrUnbalanced
	}
	last := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	s.current = &last
	return nil
}

// Concat composes m with the current matrix, so that m
// is applied before the inherited transform.
func (s *Stack) Concat(m Matrix2D) {
	c := s.Current().Mult(m)
	s.current = &c
}

// Set replaces the current matrix.
func (s *Stack) Set(m Matrix2D) {
	s.current = &m
}
