package param

import (
	"github.com/fsnotify/fsnotify"

	"github.com/opencip/cip/internal/corerr"
)

// Watch re-applies ReadFilePath whenever path changes on disk, until the
// returned stop function is called. It never bypasses the
// write-only-outside-solve gate: a reload while the engine reports
// InSolve(true) is rejected by the same checkWritable path a manual Set
// would take, and the rejection is logged rather than propagated, since
// there is no caller to return it to.
func (s *Store) Watch(path string) (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, corerr.Wrap(corerr.NoMemory, "param.Watch", err)
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, corerr.Wrap(corerr.NoFile, "param.Watch: "+path, err)
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.ReadFilePath(path); err != nil {
					log.WithField("path", path).Warnf("reload failed: %v", err)
				} else {
					log.WithField("path", path).Info("reloaded parameter file")
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.WithField("path", path).Warnf("watch error: %v", err)
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		_ = w.Close()
	}, nil
}
