// Package schedule turns a judge contest descriptor into the timing block the
// live scoreboard reads: start, end, freeze, and replay scale.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kingrea/livesite-config/internal/domjudge"
)

const (
	// DefaultTitle is used when the contest has no name.
	DefaultTitle = "LiveSite"
	// DefaultFrontPageHTML is the landing fragment shown above the scoreboard.
	DefaultFrontPageHTML = "<h1 class=\"page-header\">LiveSite</h1>\n\n<p>Live scoreboard</p>\n"
	// Scale is the replay speed multiplier; replay is not supported.
	Scale = 1
)

var (
	// ErrUnresolvedTime marks a start or end time that produced no instant.
	ErrUnresolvedTime = errors.New("schedule: contest time could not be resolved")
	// ErrFreezeAfterEnd marks a freeze instant later than the contest end.
	ErrFreezeAfterEnd = errors.New("schedule: freeze is after contest end")
)

// FieldError ties a resolution failure to the descriptor field that caused it.
type FieldError struct {
	Field string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("schedule: %s %q: %v", e.Field, e.Raw, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Times is the scoreboard timing block in Unix epoch seconds.
type Times struct {
	Start  int64 `json:"start" yaml:"start"`
	End    int64 `json:"end" yaml:"end"`
	Freeze int64 `json:"freeze" yaml:"freeze"`
	Scale  int   `json:"scale" yaml:"scale"`
}

// ContestConfig is the resolved contest document.
type ContestConfig struct {
	FrontPageHTML string  `json:"frontPageHtml" yaml:"frontPageHtml"`
	ProblemLink   *string `json:"problemLink" yaml:"problemLink"`
	Times         Times   `json:"times" yaml:"times"`
	Title         string  `json:"title" yaml:"title"`
}

// HasFreeze reports whether the scoreboard stops updating before the end.
func (c ContestConfig) HasFreeze() bool {
	return c.Times.Freeze < c.Times.End
}

// Logger receives operator-facing messages. It matches logging.Logger's
// signature; Warn carries conditions the operator should look at.
type Logger interface {
	Printf(format string, args ...any)
	Warn(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Options carries the presentation values substituted into every result.
type Options struct {
	PlaceholderTitle string
	FrontPageHTML    string
	ProblemLink      string
	Logger           Logger
}

// Resolver builds ContestConfig values from contest descriptors.
type Resolver struct {
	opts Options
}

// NewResolver fills unset options with package defaults.
func NewResolver(opts Options) *Resolver {
	if strings.TrimSpace(opts.PlaceholderTitle) == "" {
		opts.PlaceholderTitle = DefaultTitle
	}
	if strings.TrimSpace(opts.FrontPageHTML) == "" {
		opts.FrontPageHTML = DefaultFrontPageHTML
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Resolver{opts: opts}
}

// Resolve computes the scoreboard schedule. A missing or unparseable start or
// end time is terminal: the returned error wraps ErrUnresolvedTime and no
// config is produced.
func (r *Resolver) Resolve(contest domjudge.ContestDescriptor) (ContestConfig, error) {
	start, err := r.resolveTime("start_time", contest.StartTime)
	if err != nil {
		return ContestConfig{}, err
	}
	end, err := r.resolveTime("end_time", contest.EndTime)
	if err != nil {
		return ContestConfig{}, err
	}
	if end < start {
		r.opts.Logger.Warn("schedule: end_time %s is before start_time %s", FormatTimestamp(end, nil), FormatTimestamp(start, nil))
	}

	freeze := end
	if raw := contest.ScoreboardFreezeDuration; strings.TrimSpace(raw) != "" {
		seconds := ParseDuration(raw)
		freeze = end - seconds
		r.opts.Logger.Printf("schedule: scoreboard freezes %d seconds before end at %s", seconds, FormatTimestamp(freeze, nil))
	} else {
		r.opts.Logger.Printf("schedule: no freeze configured; freeze set to end time")
	}
	if freeze > end {
		return ContestConfig{}, &FieldError{Field: "scoreboard_freeze_duration", Raw: contest.ScoreboardFreezeDuration, Err: ErrFreezeAfterEnd}
	}
	if freeze < start {
		r.opts.Logger.Warn("schedule: freeze %s precedes start_time %s", FormatTimestamp(freeze, nil), FormatTimestamp(start, nil))
	}

	title := strings.TrimSpace(contest.Name)
	if title == "" {
		title = r.opts.PlaceholderTitle
	}
	cfg := ContestConfig{
		FrontPageHTML: r.opts.FrontPageHTML,
		Times: Times{
			Start:  start,
			End:    end,
			Freeze: freeze,
			Scale:  Scale,
		},
		Title: title,
	}
	if link := strings.TrimSpace(r.opts.ProblemLink); link != "" {
		cfg.ProblemLink = &link
	}
	return cfg, nil
}

func (r *Resolver) resolveTime(field, raw string) (int64, error) {
	sec, err := ParseTimestamp(raw)
	if err == nil {
		return sec, nil
	}
	if !errors.Is(err, ErrNoTimestamp) {
		r.opts.Logger.Warn("schedule: %s: %v", field, err)
	}
	return 0, &FieldError{Field: field, Raw: raw, Err: fmt.Errorf("%w: %v", ErrUnresolvedTime, err)}
}
