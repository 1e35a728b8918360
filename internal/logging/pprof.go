package logging

import (
	"errors"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
)

// PprofAddr is where the profiling server listens when enabled.
const PprofAddr = "localhost:6060"

func startPprof() {
	go func() {
		Logger().Info("pprof_listening", slog.String("addr", PprofAddr))
		if err := http.ListenAndServe(PprofAddr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger().Error("pprof_failed", slog.String("error", err.Error()))
		}
	}()
}
