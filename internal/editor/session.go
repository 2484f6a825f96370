package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"freecode/internal/domain/model"
)

const (
	DefaultCode = "// write your code here"

	MsgSampleFailed = "Sample test case failed! Check your logic."
	MsgSomeFailed   = "One or more test cases failed."
	MsgAllPassed    = "Congratulations! All Test Cases Passed!"
)

// ErrBusy is returned by Run and Submit when the in-flight guard is enabled
// and another call has not finished yet.
var ErrBusy = errors.New("a run or submit is already in progress")

// Executor is the judge as the editor uses it. judge.Client satisfies it.
type Executor interface {
	Run(ctx context.Context, code string, lang model.Language, sampleInput string) model.TestResult
	Submit(ctx context.Context, code string, lang model.Language) []model.TestResult
}

// Session owns one editing session: buffer, language, results, countdown and
// the run/submit state machine. It is safe for concurrent use; judge calls
// run without holding the lock so the clock keeps ticking meanwhile.
type Session struct {
	mu        sync.Mutex
	executor  Executor
	problem   model.Problem
	code      string
	language  model.Language
	results   []model.TestResult
	lastError string
	state     State
	inFlight  bool

	guard        bool
	tickInterval time.Duration
	logger       *slog.Logger

	timer Timer
}

type Option func(*Session)

// WithInFlightGuard makes overlapping Run/Submit calls fail with ErrBusy
// instead of issuing another request.
func WithInFlightGuard() Option {
	return func(s *Session) { s.guard = true }
}

func WithProblem(p model.Problem) Option {
	return func(s *Session) { s.problem = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTickInterval changes how often RunClock ticks. Defaults to one second.
func WithTickInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

func NewSession(executor Executor, opts ...Option) *Session {
	s := &Session{
		executor:     executor,
		problem:      model.DefaultProblem(),
		code:         DefaultCode,
		language:     model.DefaultLanguage,
		state:        Idle,
		tickInterval: time.Second,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCode replaces the buffer. Empty input keeps the current code.
func (s *Session) SetCode(code string) {
	if code == "" {
		return
	}
	s.mu.Lock()
	s.code = code
	s.mu.Unlock()
}

func (s *Session) SetLanguage(name string) error {
	lang, err := model.ParseLanguage(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	return nil
}

func (s *Session) begin(next State) (string, model.Language, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guard && s.inFlight {
		return "", "", ErrBusy
	}
	s.inFlight = true
	s.timer.Restart()
	s.lastError = ""
	s.state = next
	return s.code, s.language, nil
}

// Run judges the buffer against the problem's sample input.
func (s *Session) Run(ctx context.Context) (model.TestResult, error) {
	code, lang, err := s.begin(Running)
	if err != nil {
		return model.TestResult{}, err
	}
	s.logger.Debug("Running sample", "language", lang)

	result := s.executor.Run(ctx, code, lang, s.problem.SampleInput)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.results = []model.TestResult{result}
	if result.TestPassed {
		s.state = SampleShown
	} else {
		s.state = SampleFailed
		s.lastError = MsgSampleFailed
	}
	return result, nil
}

// Submit judges the buffer against the full hidden suite.
func (s *Session) Submit(ctx context.Context) ([]model.TestResult, error) {
	code, lang, err := s.begin(Submitting)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Submitting", "language", lang)

	results := s.executor.Submit(ctx, code, lang)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	s.results = append([]model.TestResult(nil), results...)
	if model.AllPassed(results) {
		s.state = AllPassed
	} else {
		s.state = SomeFailed
		s.lastError = MsgSomeFailed
	}
	return results, nil
}

// Tick advances the countdown by one second.
func (s *Session) Tick() int {
	return s.timer.Tick()
}

// RunClock ticks the countdown until ctx is done.
func (s *Session) RunClock(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Snapshot is a consistent copy of everything a view needs.
type Snapshot struct {
	State                 State
	Problem               model.Problem
	Code                  string
	Language              model.Language
	Results               []model.TestResult
	TimerSecondsRemaining int
	TimerRunning          bool
	LastError             string
}

// ShowCongrats is true only after a submit where every test passed.
func (s Snapshot) ShowCongrats() bool {
	return s.State == AllPassed
}

// ShowSample is true before any call and after a passing run.
func (s Snapshot) ShowSample() bool {
	return s.State == Idle || s.State == SampleShown
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:                 s.state,
		Problem:               s.problem,
		Code:                  s.code,
		Language:              s.language,
		Results:               append([]model.TestResult(nil), s.results...),
		TimerSecondsRemaining: s.timer.Remaining(),
		TimerRunning:          s.timer.Running(),
		LastError:             s.lastError,
	}
}
