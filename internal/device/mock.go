package device

import (
	"context"
	"sync"

	"github.com/apkdock/apkdock/internal/domain"
)

// Compile-time assertion that MockRegistry implements PackageRegistry
var _ PackageRegistry = (*MockRegistry)(nil)

// MockRegistry implements PackageRegistry for testing
type MockRegistry struct {
	mu   sync.RWMutex
	apps map[string]*domain.InstalledApp

	// For error injection
	ListError      error
	InfoError      error
	InstallError   error
	UninstallError error

	// Recorded handoffs
	Installed   []string
	Uninstalled []string
}

// NewMockRegistry creates a new mock registry
func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		apps: make(map[string]*domain.InstalledApp),
	}
}

// AddApp registers an installed app
func (m *MockRegistry) AddApp(app *domain.InstalledApp) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apps[app.PackageName] = app
}

// RemoveApp unregisters an installed app
func (m *MockRegistry) RemoveApp(packageName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.apps, packageName)
}

// ListPackages implements PackageRegistry.ListPackages
func (m *MockRegistry) ListPackages(ctx context.Context) ([]string, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name := range m.apps {
		names = append(names, name)
	}
	return names, nil
}

// AppInfo implements PackageRegistry.AppInfo
func (m *MockRegistry) AppInfo(ctx context.Context, packageName string) (*domain.InstalledApp, error) {
	if m.InfoError != nil {
		return nil, m.InfoError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.apps[packageName], nil
}

// Install implements PackageRegistry.Install
func (m *MockRegistry) Install(ctx context.Context, apkPath string) error {
	if m.InstallError != nil {
		return m.InstallError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Installed = append(m.Installed, apkPath)
	return nil
}

// Uninstall implements PackageRegistry.Uninstall
func (m *MockRegistry) Uninstall(ctx context.Context, packageName string) error {
	if m.UninstallError != nil {
		return m.UninstallError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uninstalled = append(m.Uninstalled, packageName)
	delete(m.apps, packageName)
	return nil
}
