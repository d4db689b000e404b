package maincmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mna/mainer"

	"github.com/mna/crosscut/internal/debounce"
	"github.com/mna/crosscut/lang/debugger"
	"github.com/mna/crosscut/lang/machine"
	"github.com/mna/crosscut/lang/update"
)

func (c *Cmd) Watch(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return WatchFiles(ctx, stdio, args...)
}

// WatchFiles compiles files, runs them, and recompiles on every debounced
// filesystem change, applying the new code to the live Machine via
// update.Apply instead of restarting it (spec §4.8's hot-reload loop).
func WatchFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	_, syntax, prog, err := compileFiles(stdio, files...)
	if err != nil {
		return err
	}

	m := machine.New(prog)
	d := debugger.New(syntax, prog, m)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()
	for _, f := range files {
		if err := watcher.Add(f); err != nil {
			return fmt.Errorf("watch: add %s: %w", f, err)
		}
	}

	db := debounce.New(ctx, 150*time.Millisecond)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					db.Notify()
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(stdio.Stderr, "watch: %v\n", werr)
			}
		}
	}()

	for {
		for m.Mode != machine.Finished {
			m.Continue()
			if m.Mode != machine.Stopped || len(m.Effects) == 0 {
				break
			}
			eff := &m.Effects[0]
			if !eff.Kind.Recoverable() {
				break
			}
			eff.Reply = 0
			eff.HasReply = true
		}

		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-db.Changes():
			if !ok {
				return nil
			}
			_, newSyntax, newProg, cerr := compileFiles(stdio, files...)
			if cerr != nil {
				fmt.Fprintf(stdio.Stderr, "watch: recompile failed, keeping previous program: %v\n", cerr)
				continue
			}
			update.Apply(m, newProg)
			d.Rebind(newSyntax, newProg)
			fmt.Fprintln(stdio.Stdout, "reloaded")
		}
	}
}
