// internal/payloadcheck/handler.go
package payloadcheck

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"therapy-recommendations/internal/common/errors"
	"therapy-recommendations/internal/common/logger"
	"therapy-recommendations/internal/common/metrics"
	"therapy-recommendations/pkg/registry"
)

// Checker decodes payloads as a registered kind and reports whether they are well formed.
type Checker struct {
	config  *Config
	logger  logger.Logger
	metrics *metrics.Recorder
}

func NewChecker(config *Config, log logger.Logger, rec *metrics.Recorder) *Checker {
	if rec == nil {
		rec = metrics.New()
	}
	return &Checker{
		config:  config,
		logger:  log.Named("payloadcheck"),
		metrics: rec,
	}
}

// resolveKind falls back to the configured default kind.
func (c *Checker) resolveKind(kind string) (registry.PayloadKind, error) {
	if kind == "" {
		kind = c.config.DefaultKind
	}
	return registry.Lookup(kind)
}

// Check validates data as the given kind. A malformed payload is reported, not returned as
// an error; the error return is reserved for unknown kinds and cancellation.
func (c *Checker) Check(ctx context.Context, kind string, data []byte) (*Report, error) {
	return c.check(ctx, kind, "", data)
}

func (c *Checker) check(ctx context.Context, kind, source string, data []byte) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k, err := c.resolveKind(kind)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	normalized, err := k.Normalize(data)
	elapsed := time.Since(start)

	report := &Report{Source: source, Kind: k.ID}
	fields := map[string]interface{}{
		"kind":       k.ID,
		"durationMs": elapsed.Milliseconds(),
	}
	if source != "" {
		fields["source"] = source
	}

	if err != nil {
		stdErr := errors.Normalize(err)
		if stdErr.Code == errors.ErrCodeInternal {
			return nil, stdErr
		}
		report.ErrorCode = string(stdErr.Code)
		report.Category = errors.GetErrorCategory(stdErr.Code)
		report.Retryable = errors.IsRetryableErrorCode(stdErr.Code)
		report.Message = stdErr.Message
		report.Violations = stdErr.Violations

		fields["errorCode"] = report.ErrorCode
		fields["category"] = report.Category
		fields["violations"] = len(report.Violations)
		c.logger.Warn("payload rejected", fields)
		c.metrics.Observe(k.ID, report.ErrorCode, elapsed)
		return report, nil
	}

	report.Valid = true
	report.Normalized = normalized
	c.logger.Info("payload accepted", fields)
	c.metrics.Observe(k.ID, "", elapsed)
	return report, nil
}

// CheckFile reads path and checks its contents as kind.
func (c *Checker) CheckFile(ctx context.Context, kind, path string) (*Report, error) {
	data, err := c.readFile(path)
	if err != nil {
		c.logger.Error("failed to read payload", map[string]interface{}{
			"source": path,
			"error":  err,
		})
		return nil, err
	}
	return c.check(ctx, kind, path, data)
}

// CheckFiles checks every path in order. With FailFast set it stops after the first
// rejected payload.
func (c *Checker) CheckFiles(ctx context.Context, kind string, paths []string) (*Summary, error) {
	summary := &Summary{Reports: make([]Report, 0, len(paths))}

	for _, path := range paths {
		report, err := c.CheckFile(ctx, kind, path)
		if err != nil {
			return summary, err
		}
		summary.add(*report)

		if !report.Valid && c.config.FailFast {
			c.logger.Warn("stopping after first rejected payload", map[string]interface{}{
				"source":  path,
				"skipped": len(paths) - summary.Checked,
			})
			break
		}
	}

	c.logger.Info("payload check finished", map[string]interface{}{
		"checked":  summary.Checked,
		"valid":    summary.Valid,
		"rejected": summary.Rejected,
	})
	return summary, nil
}

func (c *Checker) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open payload %s: %w", path, err)
	}
	defer f.Close()

	limit := c.config.MaxBytes
	if limit <= 0 {
		limit = MaxPayloadBytes
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("payload %s exceeds %d bytes", path, limit)
	}
	return data, nil
}
