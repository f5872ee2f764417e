package builder

import "context"

// BuildFunc is a composite build step evaluated against a Session.
type BuildFunc func(ctx context.Context, s Session) error

// Session is what a BuildFunc builds with. A dry session only records
// whether anything would run.
type Session interface {
	// Run runs command if it is out of date.
	Run(ctx context.Context, command string) error
	// Group evaluates fn as one unit: it runs only if something inside is stale.
	Group(ctx context.Context, fn BuildFunc) error
	// Clean removes every recorded output and the store.
	Clean(ctx context.Context) error
	// Dry reports whether commands are only being checked.
	Dry() bool
}

// Call evaluates fn in a live session.
func (b *Builder) Call(ctx context.Context, fn BuildFunc) error {
	return fn(ctx, &liveSession{b: b})
}

// OutOfDateFunc evaluates fn in a dry session and reports whether any
// command in it would run.
func (b *Builder) OutOfDateFunc(ctx context.Context, fn BuildFunc) (bool, error) {
	dry := &drySession{b: b}
	if err := fn(ctx, dry); err != nil {
		return false, err
	}
	return dry.stale, nil
}

type liveSession struct {
	b *Builder
}

func (s *liveSession) Run(ctx context.Context, command string) error {
	return s.b.Run(ctx, command)
}

func (s *liveSession) Group(ctx context.Context, fn BuildFunc) error {
	stale, err := s.b.OutOfDateFunc(ctx, fn)
	if err != nil || !stale {
		return err
	}
	return fn(ctx, s)
}

func (s *liveSession) Clean(ctx context.Context) error {
	_, err := s.b.Autoclean(ctx)
	return err
}

func (s *liveSession) Dry() bool { return false }

type drySession struct {
	b     *Builder
	stale bool
}

func (s *drySession) Run(ctx context.Context, command string) error {
	if s.stale {
		return nil
	}
	stale, err := s.b.OutOfDate(ctx, command)
	if err != nil {
		return err
	}
	s.stale = stale
	return nil
}

// Group nests inline: the enclosing dry session already is the unit.
func (s *drySession) Group(ctx context.Context, fn BuildFunc) error {
	return fn(ctx, s)
}

func (s *drySession) Clean(context.Context) error {
	s.stale = true
	return nil
}

func (s *drySession) Dry() bool { return true }
