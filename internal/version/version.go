package version

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Заполняются при сборке: -ldflags "-X .../internal/version.version=v1.2.3".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Build описывает сборку бинарника.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// Current возвращает сведения о текущей сборке.
func Current() Build {
	return Build{Version: version, Commit: commit, Date: date}
}

// String форматирует сборку для флага -version.
func (b Build) String() string {
	return fmt.Sprintf("storefront %s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}

// Fields возвращает поля сборки для стартового лога.
func (b Build) Fields() log.Fields {
	return log.Fields{"version": b.Version, "commit": b.Commit, "build_date": b.Date}
}

// RegisterBuildInfo публикует storefront_build_info со значением 1.
// Повторная регистрация той же сборки не считается ошибкой.
func RegisterBuildInfo(registerer prometheus.Registerer, b Build) error {
	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "storefront",
		Name:      "build_info",
		Help:      "Build metadata of the running storefront binary.",
	}, []string{"version", "commit", "build_date"})

	if err := registerer.Register(info); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return fmt.Errorf("register build info: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.GaugeVec)
		if !ok {
			return fmt.Errorf("register build info: unexpected collector %T", already.ExistingCollector)
		}
		info = existing
	}
	info.WithLabelValues(b.Version, b.Commit, b.Date).Set(1)
	return nil
}
