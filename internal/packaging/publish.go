package packaging

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/JonMunkholm/refdata/internal/blob"
	"github.com/JonMunkholm/refdata/internal/core"
)

// Publisher uploads packaged archives to a blob store.
type Publisher struct {
	Store blob.Store

	// Prefix is prepended to the archive name to form the key.
	Prefix    string
	Overwrite bool

	// Metadata is attached to every uploaded blob.
	Metadata map[string]string
	Report   *core.Report
}

// Publish uploads every file and returns the stored blob infos in the same
// order. A nil store publishes nothing.
func (p *Publisher) Publish(ctx context.Context, files []string) ([]blob.Info, error) {
	if p.Store == nil {
		return nil, nil
	}
	report := p.Report
	if report == nil {
		report = core.NewReport(nil)
	}

	infos := make([]blob.Info, 0, len(files))
	for _, file := range files {
		key := path.Join(p.Prefix, filepath.Base(file))
		info, err := p.put(ctx, key, file)
		if err != nil {
			return infos, fmt.Errorf("blob put %s: %w", key, err)
		}
		report.Logger().Info("published",
			"key", info.Key, "size", info.Size, "driver", string(p.Store.Driver()))
		infos = append(infos, info)
	}
	return infos, nil
}

func (p *Publisher) put(ctx context.Context, key, file string) (blob.Info, error) {
	f, err := os.Open(file)
	if err != nil {
		return blob.Info{}, err
	}
	defer f.Close()
	return p.Store.Put(ctx, key, f, blob.PutOptions{
		ContentType: "application/zip",
		Metadata:    p.Metadata,
		Overwrite:   p.Overwrite,
	})
}
