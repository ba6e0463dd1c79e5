package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/specialistvlad/voxelforge/internal/ctxlog"
	"github.com/specialistvlad/voxelforge/internal/geometry"
	"github.com/specialistvlad/voxelforge/internal/notify"
	"github.com/specialistvlad/voxelforge/internal/object"
	"github.com/specialistvlad/voxelforge/internal/repl"
	"github.com/specialistvlad/voxelforge/internal/world"
)

var (
	// ErrUnknownObject is returned for a name missing from the catalog.
	ErrUnknownObject = errors.New("unknown object")
	// ErrBlocked is returned by Place when a condition does not hold.
	ErrBlocked = errors.New("conditions not met")
)

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)
	defer a.logger.Debug("App.Run method finished.")

	args := a.config.Args
	switch a.config.Command {
	case CommandEval:
		return repl.Run(ctx, repl.NewSession(a.rng), a.outW, repl.HistoryPath())
	case CommandFill:
		box, err := parseInts(args[1:])
		if err != nil {
			return err
		}
		from := world.Point{X: box[0], Y: box[1], Z: box[2]}
		to := world.Point{X: box[3], Y: box[4], Z: box[5]}
		return a.Fill(ctx, args[0], from, to)
	}

	if _, err := a.LoadDefinitions(ctx); err != nil {
		return err
	}

	switch a.config.Command {
	case CommandList:
		return a.List(ctx)
	case CommandCheck, CommandPlace:
		at, err := parsePoint(args[1:])
		if err != nil {
			return err
		}
		if a.config.Command == CommandCheck {
			ok, err := a.Check(ctx, args[0], at)
			if err != nil {
				return err
			}
			verdict := "blocked"
			if ok {
				verdict = "placeable"
			}
			fmt.Fprintf(a.outW, "%s at %s: %s\n", args[0], at, verdict)
			return nil
		}
		ev, err := a.Place(ctx, args[0], at)
		if ev != nil {
			fmt.Fprintf(a.outW, "placed %s at %s: %d blocks\n", args[0], at, len(ev.Blocks))
		}
		return err
	}
	return fmt.Errorf("unknown command %q", a.config.Command)
}

// List prints the loaded object names followed by the load failures.
func (a *App) List(ctx context.Context) error {
	gen := a.catalog.Current()
	for _, name := range gen.Names() {
		fmt.Fprintln(a.outW, name)
	}
	for _, f := range gen.Failures {
		fmt.Fprintf(a.outW, "failed: %v\n", f)
	}
	return nil
}

// Check reports whether the named object may be placed at the origin.
func (a *App) Check(ctx context.Context, name string, at world.Point) (bool, error) {
	ctx = a.withLogger(ctx)
	obj, err := a.prepare(name)
	if err != nil {
		return false, err
	}
	return obj.CanPlace(ctx, a.world, at.X, at.Y, at.Z)
}

// Place checks the conditions, unless forced, and places the named object.
// The written blocks are published to the notifier. A notification
// failure is returned together with the event, since the blocks are
// already in the world.
func (a *App) Place(ctx context.Context, name string, at world.Point) (*notify.Event, error) {
	ctx = ctxlog.With(a.withLogger(ctx), "object", name, "origin", at.String())
	logger := ctxlog.FromContext(ctx)

	obj, err := a.prepare(name)
	if err != nil {
		return nil, err
	}

	if a.config.Force {
		logger.Debug("Skipping conditions.")
	} else {
		ok, err := obj.CanPlace(ctx, a.world, at.X, at.Y, at.Z)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("object %q at %s: %w", name, at, ErrBlocked)
		}
	}

	rec := world.NewRecorder(a.world)
	if err := obj.Place(ctx, rec, at.X, at.Y, at.Z, a.rng); err != nil {
		return nil, err
	}
	changes := rec.Changes()
	logger.Info("Object placed.", "blocks", len(changes))

	ev := notify.NewEvent(a.catalog.Current().ID.String(), name, at, changes)
	t := obj.Transform()
	ev.Rotation, ev.Mirror, ev.Forced = t.Rotation*90, t.MirrorX, a.config.Force
	if err := a.notifier.Publish(ctx, ev); err != nil {
		logger.Warn("Placement notification failed.", "error", err)
		return ev, fmt.Errorf("failed to publish placement: %w", err)
	}
	return ev, nil
}

// Fill writes the named material into the inclusive box.
func (a *App) Fill(ctx context.Context, materialName string, from, to world.Point) error {
	ctx = a.withLogger(ctx)
	m, err := a.palette.TryGetBlockMaterial(materialName)
	if err != nil {
		return err
	}
	if err := world.Fill(ctx, a.world, from, to, m.ID, m.DefaultData); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("World filled.", "material", m.Name, "from", from.String(), "to", to.String())
	fmt.Fprintf(a.outW, "filled %s to %s with %s\n", from, to, m.Name)
	return nil
}

// prepare looks the object up, applies the orientation override and
// draws a fresh snapshot when configured to.
func (a *App) prepare(name string) (*object.Object, error) {
	obj, ok := a.catalog.Object(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownObject, name)
	}
	if a.config.OverrideOrientation {
		turns, err := geometry.QuarterTurns(a.config.Rotation)
		if err != nil {
			return nil, err
		}
		obj.SetOrientation(turns, a.config.Mirror)
	}
	if a.config.Rerandomize {
		if err := obj.Randomize(a.rng); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func parsePoint(args []string) (world.Point, error) {
	xyz, err := parseInts(args)
	if err != nil {
		return world.Point{}, err
	}
	return world.Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q is not an integer", s)
		}
		out[i] = n
	}
	return out, nil
}
