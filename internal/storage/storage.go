package storage

import (
	"errors"

	"github.com/martinsuchenak/devstackctl/internal/model"
)

var (
	ErrDeploymentNotFound = errors.New("deployment not found")
	ErrInvalidName        = errors.New("invalid stack name")
)

// Storage records the stacks this tool has created. It is bookkeeping only:
// the orchestration service remains the source of truth, and nothing here is
// consulted before talking to it.
type Storage interface {
	ListDeployments() ([]model.Deployment, error)
	GetDeployment(stackName string) (*model.Deployment, error)
	CreateDeployment(dep *model.Deployment) error
	DeleteDeployment(stackName string) error
	Close() error
}
