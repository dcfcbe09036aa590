package interfaces

import "time"

// BuildObserver receives telemetry from block builds.
type BuildObserver interface {
	ObserveBuild(blockID string, duration time.Duration, err error)
	ObserveImageFallback(blockID string, reason string)
	ObserveRenderCache(hit bool)
}
