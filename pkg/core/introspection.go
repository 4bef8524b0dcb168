package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Key         string     `json:"key"`
	Codec       string     `json:"codec"`
	StorageType string     `json:"storage_type"`
	ReadOnly    bool       `json:"read_only"`
	Strict      bool       `json:"strict"`
	Writes      int        `json:"writes"`
	LastWrite   *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storageType := "unknown"
	if s.storage != nil {
		storageType = "storage"
		if comp, ok := s.storage.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}

	codec := ""
	if s.codec != nil {
		codec = s.codec.Name()
	}

	return ServiceState{
		Key:         s.key,
		Codec:       codec,
		StorageType: storageType,
		ReadOnly:    s.readOnly,
		Strict:      s.strict,
		Writes:      s.writes,
		LastWrite:   s.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
