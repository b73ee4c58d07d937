// Package loader provides the feature registry used by the HTTP server.
//
// Features bundle a service and its routes; the manager registers them
// on the Fiber application in registration order.
package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Feature is a self-contained unit of HTTP functionality.
type Feature interface {
	// Name returns the unique feature name, used in logs and errors.
	Name() string

	// Load registers the feature's routes on the router.
	Load(app fiber.Router) error
}

// Manager collects features and loads them onto the application.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to the manager.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll loads every registered feature; the first failure aborts.
func (m *Manager) LoadAll(app fiber.Router) error {
	for _, f := range m.features {
		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
	}
	return nil
}
