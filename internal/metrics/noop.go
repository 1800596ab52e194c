package metrics

// NoopCollector is a no-op implementation of the Collector interface.
// All methods are empty stubs that do nothing.
type NoopCollector struct{}

// ConnectionOpened is a no-op.
func (n *NoopCollector) ConnectionOpened() {}

// ConnectionClosed is a no-op.
func (n *NoopCollector) ConnectionClosed() {}

// UserRegistered is a no-op.
func (n *NoopCollector) UserRegistered() {}

// UserRemoved is a no-op.
func (n *NoopCollector) UserRemoved() {}

// RoomCreated is a no-op.
func (n *NoopCollector) RoomCreated() {}

// RoomDeleted is a no-op.
func (n *NoopCollector) RoomDeleted() {}

// CommandProcessed is a no-op.
func (n *NoopCollector) CommandProcessed(command string) {}

// MessageDelivered is a no-op.
func (n *NoopCollector) MessageDelivered(kind string) {}

// ClientError is a no-op.
func (n *NoopCollector) ClientError(kind string) {}

// PingSent is a no-op.
func (n *NoopCollector) PingSent() {}

// LivenessTimeout is a no-op.
func (n *NoopCollector) LivenessTimeout() {}
