package optim

import (
	"errors"
	"fmt"

	"github.com/HugoDaniel/irsubst/internal/ir/stmt"
)

var (
	// ErrNilRoot is returned when the rewrite root is missing.
	ErrNilRoot = errors.New("optim: nil rewrite root")

	// ErrNilVar is returned when no target variable is given.
	ErrNilVar = errors.New("optim: nil target variable")

	// ErrNilReplacement is returned when no replacement expression is given.
	ErrNilReplacement = errors.New("optim: nil replacement expression")

	// ErrUnsupportedStmt is matched by every UnsupportedStmtError.
	ErrUnsupportedStmt = errors.New("optim: unsupported statement kind")
)

// UnsupportedStmtError reports a statement the statement rewriter cannot
// substitute into yet.
type UnsupportedStmtError struct {
	Kind stmt.Kind
}

func (e *UnsupportedStmtError) Error() string {
	return fmt.Sprintf("optim: cannot replace variables inside %s statements", e.Kind)
}

// Is makes errors.Is(err, ErrUnsupportedStmt) hold.
func (e *UnsupportedStmtError) Is(target error) bool {
	return target == ErrUnsupportedStmt
}
