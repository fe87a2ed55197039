package trainer

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/RenatoCabral2022/eartone/internal/round"
)

// SelectDifficulty resolves the session difficulty. A non-empty preset is
// used as is; otherwise the player is asked. Anything unrecognised falls back
// to hard with a warning.
func SelectDifficulty(preset string, lines LineReader, out io.Writer, logger *zap.Logger) (round.Difficulty, error) {
	choice := preset
	if choice == "" {
		line, err := lines.ReadLine("Choose difficulty (hard/medium/easy): ")
		if err != nil {
			return round.Hard, inputError(err)
		}
		choice = line
	}
	d, ok := round.ParseDifficulty(choice)
	if !ok {
		fmt.Fprintln(out, "Invalid choice, defaulting to hard.")
		logger.Warn("invalid difficulty, using hard", zap.String("input", choice))
	}
	return d, nil
}
