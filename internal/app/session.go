package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizdom/internal/domain"
)

// State is a QuizSession lifecycle state.
type State string

const (
	StateIdle               State = "idle"
	StateCategorySelected   State = "category-selected"
	StateDifficultySelected State = "difficulty-selected"
	StateInProgress         State = "in-progress"
	StateCompleted          State = "completed"
)

// leaderboardRows is how many ranked rows the leaderboard screen shows.
const leaderboardRows = 10

// Config wires a QuizSession to its collaborators. Settings is required. Backend
// may be nil, in which case every quiz runs on the local bank.
type Config struct {
	Backend      Backend
	Bank         []domain.Question
	Catalog      *CategoryCatalog
	Settings     *SettingsStore
	Leaderboard  *LeaderboardStore
	Players      *PlayerStore
	Renderer     Renderer
	TickInterval time.Duration
	Now          func() time.Time
}

// QuizSession is the quiz controller for one player: it owns the screen flow,
// the current question, the countdown and score bookkeeping.
type QuizSession struct {
	backend     Backend
	bank        []domain.Question
	catalog     *CategoryCatalog
	settings    *SettingsStore
	leaderboard *LeaderboardStore
	players     *PlayerStore
	renderer    Renderer
	router      *ScreenRouter
	countdown   *Countdown
	now         func() time.Time

	mu         sync.Mutex
	state      State
	category   *domain.Category
	difficulty domain.Difficulty
	quiz       domain.Settings
	quizCtx    context.Context
	source     QuestionSource
	token      string
	score      int
	correct    int
	index      int
	total      int
	startedAt  time.Time
	current    *domain.QuestionView
	completion *domain.FinalStats
	final      *domain.FinalStats
	// expired is the number of a remote question that timed out without the
	// backend resolving it; the backend may serve it again.
	expired int

	// generation identifies the current question; responses and timer callbacks
	// carrying an older generation are ignored.
	generation   uint64
	inputEnabled bool
	pending      bool
	resolved     bool
	loading      bool
}

func NewQuizSession(cfg Config) *QuizSession {
	if cfg.Renderer == nil {
		cfg.Renderer = discardRenderer{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Catalog == nil {
		cfg.Catalog = NewCategoryCatalog(cfg.Backend, nil)
	}
	s := &QuizSession{
		backend:     cfg.Backend,
		bank:        cfg.Bank,
		catalog:     cfg.Catalog,
		settings:    cfg.Settings,
		leaderboard: cfg.Leaderboard,
		players:     cfg.Players,
		renderer:    cfg.Renderer,
		router:      NewScreenRouter(cfg.Renderer),
		countdown:   NewCountdown(cfg.TickInterval),
		now:         cfg.Now,
		state:       StateIdle,
		quiz:        domain.DefaultSettings(),
		resolved:    true,
	}
	s.router.Handle(domain.ScreenCategorySelection, s.renderCategories)
	s.router.Handle(domain.ScreenLeaderboard, s.renderLeaderboard)
	s.router.Handle(domain.ScreenSettings, s.renderSettings)
	return s
}

// Snapshot is a read-only view of the session for transports and tests.
type Snapshot struct {
	State          State
	Mode           Mode
	Token          string
	Screen         domain.Screen
	Category       string
	Difficulty     domain.Difficulty
	Score          int
	CorrectCount   int
	QuestionIndex  int
	TotalQuestions int
	InputEnabled   bool
	Resolved       bool
	Current        *domain.QuestionView
}

func (s *QuizSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		State:          s.state,
		Token:          s.token,
		Screen:         s.router.Current(),
		Difficulty:     s.difficulty,
		Score:          s.score,
		CorrectCount:   s.correct,
		QuestionIndex:  s.index,
		TotalQuestions: s.total,
		InputEnabled:   s.inputEnabled,
		Resolved:       s.resolved,
	}
	if s.source != nil {
		snap.Mode = s.source.Mode()
	}
	if s.category != nil {
		snap.Category = s.category.Key()
	}
	if s.current != nil {
		view := *s.current
		snap.Current = &view
	}
	return snap
}

// Init loads persisted settings, warms the category and leaderboard sources and
// shows the main menu.
func (s *QuizSession) Init(ctx context.Context) {
	s.settings.Load(ctx)
	s.catalog.Load(ctx)
	if s.leaderboard != nil {
		s.leaderboard.Load(ctx)
	}
	s.renderSettings(ctx)
	s.router.Show(ctx, domain.ScreenMainMenu)
}

// Categories lists the categories currently offered.
func (s *QuizSession) Categories(ctx context.Context) []domain.Category {
	return s.catalog.Load(ctx)
}

// ShowScreen navigates to a menu screen. The game and results screens are only
// reached through Start and quiz completion.
func (s *QuizSession) ShowScreen(ctx context.Context, screen domain.Screen) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch {
	case state == StateInProgress:
		return fmt.Errorf("end the running quiz first: %w", domain.ErrInvalidTransition)
	case screen == domain.ScreenGame:
		return fmt.Errorf("use start to begin a quiz: %w", domain.ErrInvalidTransition)
	case screen == domain.ScreenResults && state != StateCompleted:
		return fmt.Errorf("no finished quiz: %w", domain.ErrInvalidTransition)
	}
	s.router.Show(ctx, screen)
	return nil
}

// SelectCategory records the category and moves on to difficulty selection.
func (s *QuizSession) SelectCategory(ctx context.Context, category domain.Category) error {
	s.mu.Lock()
	if s.state == StateInProgress {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.category = &category
	s.difficulty = ""
	s.state = StateCategorySelected
	s.mu.Unlock()

	s.sound(domain.SoundSelect)
	s.router.Show(ctx, domain.ScreenDifficultySelection)
	s.renderer.Render(domain.Event{Type: domain.EventDifficulty, Payload: domain.DifficultyPayload{}})
	return nil
}

// SelectDifficulty records the difficulty; a quiz can start once a category is also set.
func (s *QuizSession) SelectDifficulty(_ context.Context, difficulty domain.Difficulty) error {
	d, err := domain.ParseDifficulty(string(difficulty))
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateInProgress {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.difficulty = d
	canStart := s.category != nil
	if canStart {
		s.state = StateDifficultySelected
	}
	s.mu.Unlock()

	s.renderer.Render(domain.Event{Type: domain.EventDifficulty, Payload: domain.DifficultyPayload{Difficulty: d, CanStart: canStart}})
	s.sound(domain.SoundSelect)
	return nil
}

// Start begins a quiz: it picks the question source, loads the first question
// and starts the countdown.
func (s *QuizSession) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateInProgress || s.state == StateCompleted {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if s.category == nil || s.difficulty == "" {
		s.mu.Unlock()
		s.notify(domain.LevelWarning, "Please select a category and difficulty level.")
		return &domain.ValidationError{Field: "quiz", Message: "category and difficulty are required"}
	}

	previous := s.state
	category := *s.category
	difficulty := s.difficulty
	s.quiz = s.settings.Current()
	s.quizCtx = ctx
	s.state = StateInProgress
	s.source = nil
	s.token = ""
	s.score = 0
	s.correct = 0
	s.index = 0
	s.total = 0
	s.current = nil
	s.completion = nil
	s.expired = 0
	s.startedAt = s.now()
	s.generation++
	s.resolved = true
	s.inputEnabled = false
	s.pending = false
	s.loading = true
	quiz := s.quiz
	s.mu.Unlock()

	s.router.Show(ctx, domain.ScreenGame)
	s.renderer.Render(domain.Event{Type: domain.EventScore, Payload: domain.ScorePayload{Score: 0}})

	source, token, err := s.openSource(ctx, category, difficulty, quiz)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.state = previous
		s.mu.Unlock()
		s.notify(domain.LevelError, "No questions available for this quiz.")
		s.router.Show(ctx, domain.ScreenDifficultySelection)
		return err
	}
	s.source = source
	s.token = token
	if finite, ok := source.(finiteSource); ok {
		s.total = finite.Total()
	}
	s.mu.Unlock()

	log.Printf("quiz started: category=%s difficulty=%s mode=%s", category.Key(), difficulty, source.Mode())
	s.sound(domain.SoundStart)
	return s.fetchQuestion(ctx)
}

// openSource decides the mode for this quiz: remote when the backend hands out a
// session token, local otherwise.
func (s *QuizSession) openSource(ctx context.Context, category domain.Category, difficulty domain.Difficulty, quiz domain.Settings) (QuestionSource, string, error) {
	if s.backend != nil {
		token, err := s.backend.StartQuiz(ctx, StartRequest{
			CategoryID:     category.BackendID(),
			Difficulty:     difficulty,
			QuestionsCount: quiz.QuestionsPerQuiz,
		})
		if err == nil && token != "" {
			return NewRemoteQuestionSource(s.backend, token, s.playerName), token, nil
		}
		log.Printf("backend quiz start failed, using local questions: %v", err)
	}

	local := NewLocalQuestionSource(s.bank, category.Key(), difficulty, quiz.QuestionsPerQuiz)
	if local.Total() == 0 {
		return nil, "", &domain.ValidationError{Field: "category", Message: "no local questions available"}
	}
	return local, "", nil
}

func (s *QuizSession) playerName(ctx context.Context) string {
	if s.players == nil {
		return DefaultPlayerName
	}
	return s.players.Name(ctx)
}

// fetchQuestion loads the next question from the source and arms the countdown.
func (s *QuizSession) fetchQuestion(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	source := s.source
	s.mu.Unlock()

	view, err := source.Next(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state != StateInProgress {
		return domain.ErrStaleResponse
	}
	s.loading = false
	if err != nil {
		log.Printf("load question: %v", err)
		s.notifyLocked(domain.LevelError, "Error loading question")
		return err
	}
	if s.expired != 0 && view.Number == s.expired {
		// The backend never took the timeout, so the question stays closed.
		log.Printf("backend served timed out question %d again", view.Number)
		s.notifyLocked(domain.LevelError, fmt.Sprintf("Question %d already timed out. End the quiz to see your results.", view.Number))
		return fmt.Errorf("question %d already timed out: %w", view.Number, domain.ErrInvalidTransition)
	}

	s.current = &view
	s.index = view.Number - 1
	s.total = view.Total
	if source.Mode() == ModeRemote && view.Score > s.score {
		s.score = view.Score
	}
	view.Score = s.score
	s.resolved = false
	s.pending = false
	s.inputEnabled = true

	s.renderer.Render(domain.Event{Type: domain.EventQuestion, Payload: view})
	s.renderer.Render(domain.Event{Type: domain.EventScore, Payload: domain.ScorePayload{Score: s.score}})
	s.renderer.Render(domain.Event{Type: domain.EventTimer, Payload: timerPayload(s.quiz.TimerDuration)})
	s.renderer.Render(domain.Event{Type: domain.EventInput, Payload: domain.InputPayload{Enabled: true}})

	s.countdown.Start(s.quiz.TimerDuration,
		func(remaining int) { s.onTick(gen, remaining) },
		func() { s.onExpire(gen) },
	)
	return nil
}

func timerPayload(remaining int) domain.TimerPayload {
	return domain.TimerPayload{Remaining: remaining, Warning: remaining <= 10}
}

func (s *QuizSession) onTick(gen uint64, remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.resolved {
		return
	}
	s.renderer.Render(domain.Event{Type: domain.EventTimer, Payload: timerPayload(remaining)})
}

// onExpire forces the "no answer" outcome for the question of generation gen.
func (s *QuizSession) onExpire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.resolved || s.state != StateInProgress {
		s.mu.Unlock()
		return
	}
	s.resolved = true
	s.inputEnabled = false
	inFlight := s.pending
	s.pending = false

	s.renderer.Render(domain.Event{Type: domain.EventInput, Payload: domain.InputPayload{Enabled: false}})
	s.notifyLocked(domain.LevelWarning, "Time's up!")
	s.soundLocked(domain.SoundTimeUp)

	if inFlight {
		// The answer already on the wire loses; its response will be stale.
		s.generation++
		if s.source.Mode() == ModeLocal {
			// Local grading never blocks, so the timeout can resolve here.
			if result, err := s.source.Forfeit(s.quizCtx); err == nil {
				s.applyResultLocked(s.quizCtx, result, NoAnswer, true)
				s.mu.Unlock()
				return
			}
		}
		s.markExpiredLocked()
		s.index++
		s.renderer.Render(domain.Event{Type: domain.EventOutcome, Payload: domain.Outcome{
			Selected:     NoAnswer,
			CorrectIndex: NoAnswer,
			Score:        s.score,
			TimedOut:     true,
			CanAdvance:   true,
		}})
		s.mu.Unlock()
		return
	}

	source := s.source
	ctx := s.quizCtx
	s.loading = true
	s.mu.Unlock()

	result, err := source.Forfeit(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if gen != s.generation || s.state != StateInProgress {
		return
	}
	if err != nil {
		log.Printf("forfeit after timeout: %v", err)
		s.markExpiredLocked()
		s.index++
		s.renderer.Render(domain.Event{Type: domain.EventOutcome, Payload: domain.Outcome{
			Selected:     NoAnswer,
			CorrectIndex: NoAnswer,
			Score:        s.score,
			TimedOut:     true,
			CanAdvance:   true,
		}})
		return
	}
	s.applyResultLocked(ctx, result, NoAnswer, true)
}

// markExpiredLocked remembers a remote question the backend has not resolved.
func (s *QuizSession) markExpiredLocked() {
	if s.source.Mode() == ModeRemote && s.current != nil {
		s.expired = s.current.Number
	}
}

// Answer submits the player's choice for the current question. Input is disabled
// before the source is consulted, so a second call is rejected.
func (s *QuizSession) Answer(ctx context.Context, index int) error {
	s.mu.Lock()
	if s.state != StateInProgress {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if s.loading || s.resolved || !s.inputEnabled {
		s.mu.Unlock()
		return domain.ErrInputDisabled
	}
	if s.current != nil && (index < 0 || index >= len(s.current.Options)) {
		s.mu.Unlock()
		return domain.ErrInvalidAnswer
	}
	s.inputEnabled = false
	s.pending = true
	gen := s.generation
	source := s.source
	s.renderer.Render(domain.Event{Type: domain.EventInput, Payload: domain.InputPayload{Enabled: false}})
	s.mu.Unlock()

	result, err := source.Submit(ctx, index)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.resolved {
		log.Printf("discarding answer response for an already resolved question")
		if err == nil && result.QuizCompleted && s.state == StateInProgress && s.source.Mode() == ModeRemote {
			s.completion = result.FinalStats
			if s.completion == nil {
				stats := s.statsLocked(result.UpdatedScore)
				s.completion = &stats
			}
		}
		return domain.ErrStaleResponse
	}
	s.pending = false
	if err != nil {
		log.Printf("submit answer: %v", err)
		s.inputEnabled = true
		s.renderer.Render(domain.Event{Type: domain.EventInput, Payload: domain.InputPayload{Enabled: true}})
		s.notifyLocked(domain.LevelError, "Error submitting answer")
		return err
	}
	s.applyResultLocked(ctx, result, index, false)
	return nil
}

func (s *QuizSession) applyResultLocked(ctx context.Context, result domain.AnswerResult, selected int, timedOut bool) {
	s.resolved = true
	s.inputEnabled = false
	s.countdown.Stop()

	remote := s.source.Mode() == ModeRemote
	correct := result.IsCorrect && !timedOut
	if correct {
		s.correct++
	}
	switch {
	case remote && result.UpdatedScore > s.score:
		s.score = result.UpdatedScore
	case !remote && correct:
		s.score += result.PointsEarned
	}
	s.index++

	outcome := domain.Outcome{
		Selected:      selected,
		CorrectIndex:  result.CorrectIndex,
		IsCorrect:     correct,
		Score:         s.score,
		TimedOut:      timedOut,
		QuizCompleted: result.QuizCompleted,
		CanAdvance:    !(result.QuizCompleted && remote),
		Explanation:   result.Explanation,
	}
	if correct {
		outcome.PointsEarned = result.PointsEarned
	}
	s.renderer.Render(domain.Event{Type: domain.EventOutcome, Payload: outcome})
	s.renderer.Render(domain.Event{Type: domain.EventScore, Payload: domain.ScorePayload{Score: s.score}})

	if !timedOut {
		if correct {
			s.notifyLocked(domain.LevelSuccess, fmt.Sprintf("Correct! +%d points", outcome.PointsEarned))
			s.soundLocked(domain.SoundCorrect)
		} else {
			s.notifyLocked(domain.LevelError, "Incorrect answer")
			s.soundLocked(domain.SoundIncorrect)
		}
	}

	// Local quizzes complete on Next, with stats measured at that moment.
	if result.QuizCompleted && remote {
		s.completion = result.FinalStats
		if s.completion == nil {
			stats := s.statsLocked(s.score)
			s.completion = &stats
		}
		s.completeLocked(ctx, s.completion)
	}
}

// Next advances to the following question, or completes the quiz when none is left.
func (s *QuizSession) Next(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInProgress || s.loading || !s.resolved {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	if s.completion != nil {
		s.completeLocked(ctx, s.completion)
		s.mu.Unlock()
		return nil
	}
	if finite, ok := s.source.(finiteSource); ok && !finite.Remaining() {
		s.completeLocked(ctx, nil)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.fetchQuestion(ctx)
}

// End finishes a running quiz early with the answers given so far.
func (s *QuizSession) End(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateInProgress {
		return domain.ErrInvalidTransition
	}
	s.completeLocked(ctx, nil)
	return nil
}

func (s *QuizSession) statsLocked(score int) domain.FinalStats {
	total := s.total
	if total < 1 {
		total = s.quiz.QuestionsPerQuiz
	}
	return domain.FinalStats{
		TotalScore:     score,
		CorrectAnswers: s.correct,
		TotalQuestions: total,
		Accuracy:       Accuracy(s.correct, total),
		TimeTaken:      int(s.now().Sub(s.startedAt) / time.Second),
	}
}

func (s *QuizSession) completeLocked(ctx context.Context, stats *domain.FinalStats) {
	s.countdown.Stop()
	s.generation++
	s.resolved = true
	s.inputEnabled = false
	s.pending = false
	s.state = StateCompleted

	final := s.statsLocked(s.score)
	if stats != nil {
		final = *stats
	}

	category := ""
	if s.category != nil {
		category = s.category.Label()
	}
	entry := domain.LeaderboardEntry{
		ID:         uuid.NewString(),
		PlayerName: s.playerName(ctx),
		Score:      final.TotalScore,
		Category:   category,
		Difficulty: s.difficulty,
		Accuracy:   final.Accuracy,
		TimeTaken:  final.TimeTaken,
		Date:       s.now().Format("2006-01-02"),
	}
	if s.leaderboard != nil {
		if _, err := s.leaderboard.Record(ctx, entry); err != nil {
			log.Printf("record leaderboard entry: %v", err)
			s.notifyLocked(domain.LevelError, "Could not save your result")
		}
	}

	s.final = &final
	log.Printf("quiz completed: score=%d correct=%d/%d", final.TotalScore, final.CorrectAnswers, final.TotalQuestions)
	s.renderer.Render(domain.Event{Type: domain.EventResults, Payload: domain.ResultsPayload{
		Stats:   final,
		Message: domain.PerformanceMessage(final.Accuracy),
	}})
	s.soundLocked(domain.SoundFinish)
	s.router.Show(ctx, domain.ScreenResults)
}

// Share renders the share message for the finished quiz and returns its text.
func (s *QuizSession) Share(_ context.Context) (string, error) {
	s.mu.Lock()
	if s.state != StateCompleted || s.final == nil {
		s.mu.Unlock()
		return "", domain.ErrInvalidTransition
	}
	text := domain.ShareMessage(s.final.TotalScore)
	s.mu.Unlock()

	s.renderer.Render(domain.Event{Type: domain.EventShare, Payload: domain.SharePayload{Title: "QUIZDOM Score", Text: text}})
	s.notify(domain.LevelSuccess, "Score ready to share!")
	return text, nil
}

// Restart discards the finished quiz and returns to category selection, keeping
// the previous picks.
func (s *QuizSession) Restart(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateInProgress {
		s.mu.Unlock()
		return domain.ErrInvalidTransition
	}
	s.source = nil
	s.token = ""
	s.current = nil
	s.completion = nil
	if s.category != nil {
		s.state = StateCategorySelected
	} else {
		s.state = StateIdle
	}
	s.mu.Unlock()

	s.router.Show(ctx, domain.ScreenCategorySelection)
	return nil
}

// SaveSettings persists the settings form; a running quiz keeps its own copy.
func (s *QuizSession) SaveSettings(ctx context.Context, form SettingsForm) error {
	if _, err := s.settings.Save(ctx, form); err != nil {
		s.notify(domain.LevelError, err.Error())
		return err
	}
	s.notify(domain.LevelSuccess, "Settings saved successfully!")
	s.renderSettings(ctx)
	return nil
}

// SetPlayerName stores the name used for leaderboard entries.
func (s *QuizSession) SetPlayerName(ctx context.Context, name string) error {
	if s.players == nil {
		return nil
	}
	return s.players.SetName(ctx, name)
}

// Close stops the countdown and invalidates anything still in flight.
func (s *QuizSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countdown.Stop()
	s.generation++
}

func (s *QuizSession) renderCategories(ctx context.Context) {
	s.renderer.Render(domain.Event{Type: domain.EventCategories, Payload: s.catalog.Load(ctx)})
}

func (s *QuizSession) renderLeaderboard(ctx context.Context) {
	var entries []domain.LeaderboardEntry
	if s.leaderboard != nil {
		entries = s.leaderboard.Load(ctx)
	}
	ranked := Rank(entries)
	if len(ranked) > leaderboardRows {
		ranked = ranked[:leaderboardRows]
	}
	s.renderer.Render(domain.Event{Type: domain.EventLeaderboard, Payload: ranked})
}

func (s *QuizSession) renderSettings(_ context.Context) {
	s.renderer.Render(domain.Event{Type: domain.EventSettings, Payload: s.settings.Current()})
}

func (s *QuizSession) notify(level, message string) {
	s.renderer.Render(domain.Event{Type: domain.EventNotification, Payload: domain.Notification{Level: level, Message: message}})
}

func (s *QuizSession) notifyLocked(level, message string) { s.notify(level, message) }

func (s *QuizSession) sound(cue string) {
	if s.settings.Current().SoundEnabled {
		s.renderer.Render(domain.Event{Type: domain.EventSound, Payload: cue})
	}
}

// soundLocked uses the settings captured at quiz start.
func (s *QuizSession) soundLocked(cue string) {
	if s.quiz.SoundEnabled {
		s.renderer.Render(domain.Event{Type: domain.EventSound, Payload: cue})
	}
}
