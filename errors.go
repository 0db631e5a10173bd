package pointmesh

import "errors"

var (
	// ErrInputInvalid is returned when a generator, the connection builder or
	// the relaxer receive an argument outside of their domain. The mesh is not
	// modified when it is returned.
	ErrInputInvalid = errors.New("invalid input")
	// ErrUndefinedStatistic is returned when statistics are requested for a mesh
	// with no points.
	ErrUndefinedStatistic = errors.New("statistic undefined for empty mesh")
)
