package serve

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	instanceFileName = "serve.json"
	instanceLockName = "serve.lock"
	healthTimeout    = 2 * time.Second
	lockTimeout      = 5 * time.Second
)

// Instance describes a running preview server. It is written to the state
// directory so later invocations can find the server or detect that one is
// already running.
type Instance struct {
	ID        string    `json:"id"`
	Addr      string    `json:"addr"`
	Port      int       `json:"port"`
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
}

// NewInstance describes the current process serving on addr:port.
func NewInstance(addr string, port int) *Instance {
	return &Instance{
		ID:        uuid.NewString(),
		Addr:      addr,
		Port:      port,
		PID:       os.Getpid(),
		StartedAt: time.Now().UTC(),
	}
}

// URL is the base URL of the instance.
func (in *Instance) URL() string {
	host := in.Addr
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, in.Port)
}

// WriteInstance records info in dir under an exclusive lock. It fails when
// the existing record belongs to a server that is still healthy.
func WriteInstance(dir string, info *Instance) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(filepath.Join(dir, instanceLockName), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open instance lock: %w", err)
	}
	defer lockFile.Close()

	if err := acquireFileLockTimeout(lockFile, lockTimeout); err != nil {
		return fmt.Errorf("acquire instance lock: %w", err)
	}
	defer releaseFileLock(lockFile)

	if existing, err := ReadInstance(dir); err == nil && !IsStale(existing) {
		return fmt.Errorf("darktalk serve already running at %s (pid %d)", existing.URL(), existing.PID)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal instance: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, instanceFileName), data, 0o644); err != nil {
		return fmt.Errorf("write instance file: %w", err)
	}
	return nil
}

// ReadInstance reads the instance record from dir.
func ReadInstance(dir string) (*Instance, error) {
	data, err := os.ReadFile(filepath.Join(dir, instanceFileName))
	if err != nil {
		return nil, fmt.Errorf("read instance file: %w", err)
	}

	var info Instance
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse instance file: %w", err)
	}
	switch {
	case info.Port == 0:
		return nil, fmt.Errorf("instance file missing required field: port")
	case info.PID == 0:
		return nil, fmt.Errorf("instance file missing required field: pid")
	case info.ID == "":
		return nil, fmt.Errorf("instance file missing required field: id")
	}
	return &info, nil
}

// DeleteInstance removes the instance record. A missing file is not an error.
func DeleteInstance(dir string) error {
	if err := os.Remove(filepath.Join(dir, instanceFileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove instance file: %w", err)
	}
	return nil
}

// IsHealthy reports whether GET /health on the instance answers 200.
func IsHealthy(info *Instance) bool {
	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Get(info.URL() + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// IsStale reports whether the recorded server is gone: its process is dead
// or it no longer answers health checks.
func IsStale(info *Instance) bool {
	if !isProcessAlive(info.PID) {
		return true
	}
	return !IsHealthy(info)
}
