// internal/snapshot/store.go
//
// Snapshot stores persist the full state document between sessions. The core
// only produces and consumes the document; when and where it lands is this
// package's concern.
package snapshot

import "context"

// Store persists the serialized state document. Load reports found=false when
// no snapshot has been saved yet; that is not an error.
type Store interface {
	Save(ctx context.Context, doc []byte) error
	Load(ctx context.Context) (doc []byte, found bool, err error)
}
