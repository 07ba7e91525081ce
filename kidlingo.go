// Package kidlingo provides a high-level façade over the practice engine and
// its HTTP server. Most applications interact with this package by:
//  1. Creating a KidLingo via New() (optionally overriding the default
//     in-memory stores, catalog, evaluator, or feedback writer)
//  2. Mounting Handler() on an http.Server, or calling the session
//     operations directly
//
// All defaults are safe for local development and testing; production
// deployments typically supply the SQLite store and a structured logger.
package kidlingo

import (
	"context"
	"net/http"

	"github.com/kidlingo/kidlingo/core"
	"github.com/kidlingo/kidlingo/engine"
	"github.com/kidlingo/kidlingo/server"
)

// Options configure the façade. Engine and Server collect the option
// functions forwarded to the underlying constructors.
type Options struct {
	Engine []func(o *engine.Options)
	Server []func(o *server.Options)
}

// KidLingo bundles an engine with its HTTP front end.
type KidLingo struct {
	engine *engine.Engine
	server *server.Server
}

// New creates a KidLingo instance. With no options everything runs in
// process: in-memory stores, the embedded curriculum, the heuristic
// evaluator, and template feedback.
func New(optFns ...func(o *Options)) *KidLingo {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	eng := engine.New(opts.Engine...)
	serverOpts := append([]func(o *server.Options){
		func(o *server.Options) { o.Engine = eng },
	}, opts.Server...)

	return &KidLingo{
		engine: eng,
		server: server.New(serverOpts...),
	}
}

// Handler returns the HTTP routes for mounting on an http.Server.
func (k *KidLingo) Handler() http.Handler { return k.server.Handler() }

// Engine exposes the underlying engine for direct embedding.
func (k *KidLingo) Engine() *engine.Engine { return k.engine }

// StartSession starts or resumes practice for a learner on a goal.
func (k *KidLingo) StartSession(ctx context.Context, learnerID, ageBand, goal, locale string) (*core.StartResult, error) {
	return k.engine.StartSession(ctx, learnerID, ageBand, goal, locale)
}

// NextActivity returns the session's current teaching card.
func (k *KidLingo) NextActivity(ctx context.Context, sessionID string) (*core.Activity, error) {
	return k.engine.NextActivity(ctx, sessionID)
}

// SubmitUtterance scores what the child said and returns feedback.
func (k *KidLingo) SubmitUtterance(ctx context.Context, sessionID, utterance string) (*core.Feedback, error) {
	return k.engine.SubmitUtterance(ctx, sessionID, utterance)
}

// SetGoal switches the session to another curriculum goal.
func (k *KidLingo) SetGoal(ctx context.Context, sessionID, goal string) (*core.SessionSnapshot, error) {
	return k.engine.SetGoal(ctx, sessionID, goal)
}

// Progress summarizes the session for a caretaker.
func (k *KidLingo) Progress(ctx context.Context, sessionID string) (*core.ProgressSummary, error) {
	return k.engine.Progress(ctx, sessionID)
}

// SaveParentNote attaches a caretaker note to the session.
func (k *KidLingo) SaveParentNote(ctx context.Context, sessionID, note string) error {
	return k.engine.SaveParentNote(ctx, sessionID, note)
}
