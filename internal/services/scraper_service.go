package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	"github.com/parshjain/stockdesk/internal/config"
	apperrors "github.com/parshjain/stockdesk/internal/errors"
)

// pythonCommands are tried in order; deployment images differ in which
// interpreter name is on PATH.
var pythonCommands = []string{"python3", "python"}

// ScrapeResult captures one ingestion script run.
type ScrapeResult struct {
	ExitCode int     `json:"exitCode"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	Duration float64 `json:"durationSeconds"`
}

// ScraperService runs the external ingestion script as a bounded
// subprocess. The script itself is an external collaborator; this service
// only supervises its execution.
type ScraperService struct {
	cfg config.ScraperConfig
}

func NewScraperService(cfg config.ScraperConfig) *ScraperService {
	return &ScraperService{cfg: cfg}
}

// Run executes the scraper script, bounded by the configured timeout.
func (s *ScraperService) Run(ctx context.Context) (*ScrapeResult, error) {
	if _, err := os.Stat(s.cfg.Script); err != nil {
		return nil, &apperrors.ConfigurationError{
			Message: "scraper script is missing from the server",
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	var lastErr error
	for _, python := range pythonCommands {
		cmd := exec.CommandContext(runCtx, python, s.cfg.Script)
		cmd.Env = os.Environ()

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.ErrScriptTimeout
		}

		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				// Interpreter missing or failed to start; try the next name.
				lastErr = err
				continue
			}
		}

		result := &ScrapeResult{
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			Duration: time.Since(start).Seconds(),
		}
		zap.S().Infow("scraper run finished",
			"python", python,
			"exitCode", result.ExitCode,
			"durationSeconds", result.Duration,
		)
		return result, nil
	}

	zap.S().Errorw("no usable python interpreter", "error", lastErr)
	return nil, &apperrors.ConfigurationError{
		Message: "no Python runtime available to execute the scraper",
	}
}
