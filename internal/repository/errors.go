package repository

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

var (
	ErrGameNotFound   = fmt.Errorf("game %w", apperror.ErrNotFound)
	ErrPlayerNotFound = fmt.Errorf("player %w", apperror.ErrNotFound)
)
