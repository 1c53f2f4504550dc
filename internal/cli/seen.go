package cli

import (
	"bytes"
	"context"

	"github.com/labmed/barcoder/pkg/audit"
	"github.com/labmed/barcoder/pkg/code"
	"github.com/labmed/barcoder/pkg/storage"
)

// loadSeen merges the codes listed in paths into a new seen set. Each file
// is either a plain list or an audit log.
func loadSeen(ctx context.Context, store *storage.Store, paths []string) (*code.Seen, error) {
	logger := loggerFromContext(ctx)
	seen := code.NewSeen()
	for _, p := range paths {
		data, err := store.Read(ctx, p)
		if err != nil {
			return nil, err
		}
		codes, err := audit.ReadIssued(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		added := seen.AddAll(codes)
		logger.Debug("loaded issued codes", "path", p, "codes", len(codes), "new", added)
	}
	if len(paths) > 0 {
		logger.Info("excluding previously issued codes", "files", len(paths), "codes", seen.Len())
	}
	return seen, nil
}
