package builtin

import (
	"context"
	"fmt"
	"log"

	"github.com/valaphee/flowgo/internal/domain/executor"
	"github.com/valaphee/flowgo/internal/domain/graph"
	"github.com/valaphee/flowgo/internal/pkg/errors"
)

// loggerKey is the Config key a graph author sets to a *log.Logger. If
// unset, Log falls back to the standard library's default logger — the
// same ambient choice the teacher's cmd/server/main.go makes for startup
// banners ("log.Fatalf", "log.Printf") rather than a structured logging
// library.
const loggerKey = "logger"

// Log pulls inValue and writes it to the configured logger, then invokes
// out. It is the hook a graph author uses to route a data value to process
// output without the core itself depending on any logger.
type Log struct{}

func (Log) Bind(scope executor.ScopeHandle, node graph.Node) (bool, error) {
	if node.Kind != graph.KindLog {
		return false, nil
	}

	inID, okIn := node.Port("in")
	inValueID, okValue := node.Port("inValue")
	if !okIn || !okValue {
		return true, &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: fmt.Errorf("missing in/inValue port")}
	}
	outID, hasOut := node.Port("out")

	logger, _ := node.Config[loggerKey].(*log.Logger)
	if logger == nil {
		logger = log.Default()
	}

	in := scope.ControlPath(inID)
	err := in.Declare(string(node.Kind), func(ctx context.Context) error {
		v, err := scope.DataPath(inValueID).Get()
		if err != nil {
			return &errors.NodeEvalError{NodeKind: string(node.Kind), Cause: err}
		}

		logger.Printf("node=%s value=%v", node.ID, v)

		if hasOut {
			return scope.ControlPath(outID).Invoke(ctx)
		}
		return nil
	})
	if err != nil {
		return true, err
	}

	return true, nil
}

func (Log) Kinds() []string { return []string{string(graph.KindLog)} }
