package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kidlingo/kidlingo/coach"
	"github.com/kidlingo/kidlingo/core"
	"github.com/kidlingo/kidlingo/curriculum"
	"github.com/kidlingo/kidlingo/evaluate"
	"github.com/kidlingo/kidlingo/logging"
	"github.com/kidlingo/kidlingo/scheduler"
	"github.com/kidlingo/kidlingo/store"
	"github.com/kidlingo/kidlingo/vector"
)

const (
	defaultRubric = "Meaning first, allow small grammar errors, offer one gentle correction."

	defaultTimeboxSec = 12
	reviewTimeboxSec  = 15

	xpPass    = 10
	xpPartial = 5

	// stickerXP is the XP milestone spacing for sticker awards.
	stickerXP = 50

	// masteredLevel is the review level at which a card counts as mastered.
	masteredLevel = 3

	lexiconHintLimit = 3
)

// Options configure an Engine. Every field has a working default so
// New() with no options yields a fully in-process engine.
type Options struct {
	Sessions  core.SessionStore
	Reviews   core.ReviewStore
	Notes     core.NoteStore
	Catalog   core.Catalog
	Lexicon   core.Lexicon
	Evaluator core.Evaluator
	Writer    core.FeedbackWriter
	Searcher  core.Searcher
	Logger    logging.Logger
}

// Engine drives the practice loop. Mutations are serialized per session id,
// so stores never see concurrent writes for the same session.
type Engine struct {
	sessions  core.SessionStore
	reviews   core.ReviewStore
	notes     core.NoteStore
	catalog   core.Catalog
	lexicon   core.Lexicon
	evaluator core.Evaluator
	writer    core.FeedbackWriter
	searcher  core.Searcher
	logger    logging.Logger
	sched     *scheduler.Scheduler

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an Engine. The catalog's target phrases are indexed into the
// searcher so similarity lookups work from the first request.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Sessions == nil || opts.Reviews == nil || opts.Notes == nil {
		mem := store.NewInMemory()
		if opts.Sessions == nil {
			opts.Sessions = mem
		}
		if opts.Reviews == nil {
			opts.Reviews = mem
		}
		if opts.Notes == nil {
			opts.Notes = mem
		}
	}
	if opts.Catalog == nil {
		opts.Catalog = curriculum.Default()
	}
	if opts.Evaluator == nil {
		opts.Evaluator = evaluate.NewHeuristic()
	}
	if opts.Writer == nil {
		opts.Writer = coach.NewTemplateWriter()
	}
	if opts.Searcher == nil {
		opts.Searcher = vector.NewInMemorySearcher()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	e := &Engine{
		sessions:  opts.Sessions,
		reviews:   opts.Reviews,
		notes:     opts.Notes,
		catalog:   opts.Catalog,
		lexicon:   opts.Lexicon,
		evaluator: opts.Evaluator,
		writer:    opts.Writer,
		searcher:  opts.Searcher,
		logger:    opts.Logger,
		sched:     scheduler.New(opts.Reviews),
		locks:     make(map[string]*sync.Mutex),
	}

	cards := e.catalog.All()
	items := make([]core.SearchItem, len(cards))
	for i, card := range cards {
		items[i] = core.SearchItem{Text: card.Target, Goal: card.Goal, Topic: card.ID}
	}
	if err := e.searcher.Index(context.Background(), items); err != nil {
		e.logger.Warn("catalog indexing failed", "error", err.Error())
	}

	return e
}

// lockSession serializes all mutation for one session id.
func (e *Engine) lockSession(id string) func() {
	e.mu.Lock()
	l, ok := e.locks[id]
	if !ok {
		l = &sync.Mutex{}
		e.locks[id] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// StartSession starts or resumes practice for a learner on a goal. An
// existing session for the same learner and goal is resumed; its pending
// activity, if any, is re-issued unchanged.
func (e *Engine) StartSession(ctx context.Context, learnerID, ageBand, goal, locale string) (*core.StartResult, error) {
	if _, _, err := core.ParseAgeBand(ageBand); err != nil {
		return nil, err
	}
	if _, err := e.catalog.Cards(goal, ageBand); err != nil {
		return nil, err
	}

	sess, err := e.sessions.LatestForLearner(ctx, learnerID, goal)
	if err != nil {
		return nil, fmt.Errorf("look up learner session: %w", err)
	}
	if sess == nil {
		sess = core.NewSession(learnerID, ageBand, goal, locale)
		e.logger.Info("session started", "session_id", sess.ID, "learner_id", learnerID, "goal", goal)
	} else {
		sess.AgeBand = ageBand
		sess.Locale = locale
		e.logger.Info("session resumed", "session_id", sess.ID, "learner_id", learnerID, "goal", goal)
	}

	done := e.lockSession(sess.ID)
	defer done()

	var activity *core.Activity
	if sess.Pending != nil {
		activity = pendingActivity(sess.Pending)
	} else {
		activity, err = e.planNext(ctx, sess)
		if err != nil {
			return nil, err
		}
	}

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}
	return &core.StartResult{
		SessionID:     sess.ID,
		NextActivity:  activity,
		StateSnapshot: sess.Snapshot(),
	}, nil
}

// NextActivity returns the session's current activity: the pending card when
// one awaits an utterance, otherwise a freshly planned one.
func (e *Engine) NextActivity(ctx context.Context, sessionID string) (*core.Activity, error) {
	done := e.lockSession(sessionID)
	defer done()

	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Pending != nil {
		return pendingActivity(sess.Pending), nil
	}

	activity, err := e.planNext(ctx, sess)
	if err != nil {
		return nil, err
	}
	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}
	return activity, nil
}

// SubmitUtterance scores the utterance against the pending card, applies
// mastery and reward changes, and returns feedback with either the next
// activity or an immediate review card on failure.
func (e *Engine) SubmitUtterance(ctx context.Context, sessionID, utterance string) (*core.Feedback, error) {
	done := e.lockSession(sessionID)
	defer done()

	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// No card awaiting an answer: issue one instead of scoring.
	if sess.Pending == nil {
		activity, err := e.planNext(ctx, sess)
		if err != nil {
			return nil, err
		}
		if err := e.save(ctx, sess); err != nil {
			return nil, err
		}
		return &core.Feedback{
			FeedbackText: "Let's try this one!",
			NextActivity: activity,
		}, nil
	}

	pending := sess.Pending
	eval := e.score(utterance, pending)
	delta := eval.Outcome.MasteryDelta()

	xp := 0
	switch eval.Outcome {
	case core.OutcomePass:
		xp = xpPass
	case core.OutcomePartial:
		xp = xpPartial
	}
	sess.XP += xp
	stickers := 0
	for sess.XP/stickerXP > sess.Stickers {
		sess.Stickers++
		stickers++
	}

	sess.AddMastery(pending.CardID, delta)
	sess.Attempts = append(sess.Attempts, core.Attempt{
		CardID:  pending.CardID,
		Outcome: eval.Outcome,
		Score:   eval.Score,
		At:      time.Now().UTC(),
	})
	if err := e.sched.Update(ctx, sess, pending.CardID, delta); err != nil {
		return nil, err
	}

	text, scaffold, err := e.writer.Write(ctx, eval.Outcome, pending.TargetPhrase)
	if err != nil {
		e.logger.Warn("feedback writer failed", "session_id", sess.ID, "error", err.Error())
		text = "Good effort! Let's keep going."
	}

	feedback := &core.Feedback{
		FeedbackText:   text,
		MasteryDelta:   delta,
		XPAwarded:      xp,
		StickerAwarded: stickers,
		ScaffoldCN:     scaffold,
	}
	if xp > 0 || stickers > 0 {
		feedback.Award = &core.Award{XP: xp, Stickers: stickers}
	}

	if eval.Outcome == core.OutcomeFail {
		// The failed card stays pending and is guaranteed to be the next
		// pick, slowed down and with a longer timebox.
		pending.Attempts++
		pending.PromptText = "Let's say it slowly: " + pending.TargetPhrase
		pending.TimeboxSec = reviewTimeboxSec
		sess.RemediationCardID = pending.CardID
		feedback.ReviewCard = pendingActivity(pending)
	} else {
		sess.Pending = nil
		if sess.RemediationCardID == pending.CardID {
			sess.RemediationCardID = ""
		}
		next, err := e.planNext(ctx, sess)
		if err != nil {
			return nil, err
		}
		feedback.NextActivity = next
	}

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}
	e.logger.Debug("utterance scored",
		"session_id", sess.ID, "card_id", pending.CardID,
		"outcome", string(eval.Outcome), "score", eval.Score, "xp", xp)
	return feedback, nil
}

// score degrades gracefully: empty input and evaluator failures both become
// a fail outcome instead of an error surfaced to the child.
func (e *Engine) score(utterance string, pending *core.PendingCard) core.Evaluation {
	if strings.TrimSpace(utterance) == "" {
		return core.Evaluation{Outcome: core.OutcomeFail}
	}
	eval, err := e.evaluator.Evaluate(utterance, pending.TargetPhrase, pending.Rubric)
	if err != nil {
		e.logger.Warn("evaluator failed", "card_id", pending.CardID, "error", err.Error())
		return core.Evaluation{Outcome: core.OutcomeFail}
	}
	return eval
}

// SetGoal switches the session to another curriculum goal. Mastery, XP, and
// review history carry over; the active-card pointer and new-card cursors
// reset, so the next activity comes from the new track.
func (e *Engine) SetGoal(ctx context.Context, sessionID, goal string) (*core.SessionSnapshot, error) {
	done := e.lockSession(sessionID)
	defer done()

	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := e.catalog.Cards(goal, sess.AgeBand); err != nil {
		return nil, err
	}

	sess.Goal = goal
	sess.Pending = nil
	sess.RemediationCardID = ""
	sess.LastCardID = ""
	sess.NewSinceReview = 0

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}
	e.logger.Info("goal switched", "session_id", sess.ID, "goal", goal)
	snap := sess.Snapshot()
	return &snap, nil
}

// Progress builds the caretaker-facing summary for a session.
func (e *Engine) Progress(ctx context.Context, sessionID string) (*core.ProgressSummary, error) {
	sess, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	states, err := e.reviews.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list review cards: %w", err)
	}

	goalByCard := make(map[string]string)
	for _, card := range e.catalog.All() {
		goalByCard[card.ID] = card.Goal
	}

	summary := &core.ProgressSummary{
		CEFRBandEstimate: "A0-A1",
		XPTotal:          sess.XP,
		StickerCount:     sess.Stickers,
		Goals:            make(map[string]core.GoalProgress),
	}
	for _, st := range states {
		goal, known := goalByCard[st.CardID]
		if !known {
			continue
		}
		gp := summary.Goals[goal]
		gp.CardsSeen++
		if st.Level >= masteredLevel {
			gp.Mastered++
			summary.MasteredCards++
		}
		summary.Goals[goal] = gp
		if st.DueStep <= sess.Step {
			summary.DueReviews++
		}
	}

	attempts := sess.Attempts
	if len(attempts) > 5 {
		attempts = attempts[len(attempts)-5:]
	}
	for _, a := range attempts {
		summary.RecentCards = append(summary.RecentCards, a.CardID)
	}
	return summary, nil
}

// SaveParentNote appends a caretaker note to the session. An empty note is a
// no-op.
func (e *Engine) SaveParentNote(ctx context.Context, sessionID, note string) error {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	if _, err := e.sessions.Get(ctx, sessionID); err != nil {
		return err
	}
	if err := e.notes.Append(ctx, core.ParentNote{
		SessionID: sessionID,
		Text:      note,
		Created:   time.Now().UTC(),
	}); err != nil {
		return fmt.Errorf("append parent note: %w", err)
	}
	return nil
}

// ParentNotes lists the notes saved for a session.
func (e *Engine) ParentNotes(ctx context.Context, sessionID string) ([]core.ParentNote, error) {
	if _, err := e.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return e.notes.Notes(ctx, sessionID)
}

// planNext asks the scheduler for a card and renders it, recording it as the
// session's pending activity. Exhausted pools yield the terminal
// goal-complete activity.
func (e *Engine) planNext(ctx context.Context, sess *core.Session) (*core.Activity, error) {
	pool, err := e.catalog.Cards(sess.Goal, sess.AgeBand)
	if err != nil {
		return nil, err
	}
	card, _, err := e.sched.Pick(ctx, sess, pool)
	if err != nil {
		return nil, err
	}
	if card == nil {
		sess.Pending = nil
		return &core.Activity{GoalComplete: true}, nil
	}

	activity := e.renderActivity(ctx, sess, *card)
	sess.LastCardID = card.ID
	sess.Pending = &core.PendingCard{
		CardID:       activity.CardID,
		PromptText:   activity.PromptText,
		TargetPhrase: activity.TargetPhrase,
		Rubric:       activity.Rubric,
		ScaffoldCN:   activity.ScaffoldCN,
		TimeboxSec:   activity.TimeboxSec,
		LexiconWords: activity.LexiconWords,
	}
	return activity, nil
}

func (e *Engine) renderActivity(ctx context.Context, sess *core.Session, card core.Card) *core.Activity {
	return &core.Activity{
		CardID:       card.ID,
		PromptText:   card.PromptAt(sess.Step, sess.AgeBand),
		TargetPhrase: card.Target,
		Rubric:       defaultRubric,
		TimeboxSec:   defaultTimeboxSec,
		ScaffoldCN:   "我们一起慢慢说：" + card.Target,
		LexiconWords: e.lexiconHints(ctx, sess, card),
	}
}

// lexiconHints prefers the configured reference lexicon; without one it
// falls back to vocabulary drawn from similar catalog phrases.
func (e *Engine) lexiconHints(ctx context.Context, sess *core.Session, card core.Card) []string {
	if e.lexicon != nil {
		if words := e.lexicon.Sample(sess.AgeBand, sess.Goal, lexiconHintLimit); len(words) > 0 {
			return words
		}
	}

	results, err := e.searcher.Search(ctx, card.Target, lexiconHintLimit+1)
	if err != nil {
		e.logger.Debug("similarity lookup failed", "card_id", card.ID, "error", err.Error())
		return nil
	}
	own := make(map[string]struct{})
	for _, tok := range evaluate.Tokenize(card.Target) {
		own[tok] = struct{}{}
	}
	seen := make(map[string]struct{})
	var hints []string
	for _, res := range results {
		if res.Item.Topic == card.ID {
			continue
		}
		for _, tok := range evaluate.Tokenize(res.Item.Text) {
			if _, dup := seen[tok]; dup {
				continue
			}
			if _, ours := own[tok]; ours {
				continue
			}
			seen[tok] = struct{}{}
			hints = append(hints, tok)
			if len(hints) == lexiconHintLimit {
				return hints
			}
		}
	}
	return hints
}

func pendingActivity(p *core.PendingCard) *core.Activity {
	return &core.Activity{
		CardID:       p.CardID,
		PromptText:   p.PromptText,
		TargetPhrase: p.TargetPhrase,
		Rubric:       p.Rubric,
		TimeboxSec:   p.TimeboxSec,
		ScaffoldCN:   p.ScaffoldCN,
		LexiconWords: append([]string(nil), p.LexiconWords...),
	}
}

func (e *Engine) save(ctx context.Context, sess *core.Session) error {
	sess.Updated = time.Now().UTC()
	if err := e.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
