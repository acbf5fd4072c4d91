package sortbyext

import (
	"github.com/bianoble/sortbyext/internal/copier"
	"github.com/bianoble/sortbyext/internal/engine"
	"github.com/bianoble/sortbyext/internal/walk"
)

// Type aliases re-export engine result types as the public API.
// Users import "github.com/bianoble/sortbyext/pkg/sortbyext" and use
// sortbyext.Report, sortbyext.CheckResult, etc.

type Report = engine.Report
type Result = copier.Result
type Outcome = copier.Outcome
type Collision = engine.Collision
type DriftEntry = engine.DriftEntry
type CheckResult = engine.CheckResult

const (
	Success = copier.Success
	Failure = copier.Failure
)

// Unbounded removes the limit on concurrent copies.
const Unbounded = engine.Unbounded

var (
	// ErrSourceNotFound is returned when the source folder does not exist.
	ErrSourceNotFound = walk.ErrSourceNotFound
	// ErrNotDirectory is returned when the source path is not a folder.
	ErrNotDirectory = walk.ErrNotDirectory
)
