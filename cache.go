package meshpatch

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/requestcache"
	"github.com/spatialmesh/meshpatch/internal/hash"
)

func init() {
	gob.Register(geom.Polygon{})
}

// DefaultKey derives the patch file name for mesh from its cell count,
// for example "10242.patches". This is a weak identity: two different
// meshes with equal cell counts map to the same file. Callers that need
// to tell such meshes apart should use HashKey or supply an explicit
// path instead.
func DefaultKey(mesh Mesh) string {
	return fmt.Sprintf("%d.patches", mesh.NCells())
}

// HashKey derives the patch file name for mesh from a hash of its
// connectivity and coordinate arrays. Unlike DefaultKey, meshes with
// equal cell counts but different geometry get distinct keys.
func HashKey(mesh Mesh) string {
	return hash.Key(&meshIdentity{
		NCells:         mesh.NCells(),
		MaxEdges:       mesh.MaxEdges(),
		VerticesOnCell: mesh.VerticesOnCell(),
		NEdgesOnCell:   mesh.NEdgesOnCell(),
		LatVertex:      mesh.LatVertex(),
		LonVertex:      mesh.LonVertex(),
	}) + ".patches"
}

// meshIdentity collects the structural arrays that determine the
// patches a mesh produces.
type meshIdentity struct {
	NCells, MaxEdges int
	VerticesOnCell   []int32
	NEdgesOnCell     []int32
	LatVertex        []float64
	LonVertex        []float64
}

// Save writes pc to w as a gob stream (format description at
// https://golang.org/pkg/encoding/gob/). The collection is written as
// one artifact; it is not versioned or checksummed.
func Save(w io.Writer, pc PatchCollection) error {
	e := gob.NewEncoder(w)
	if err := e.Encode(pc); err != nil {
		return fmt.Errorf("meshpatch: saving patches: %v", err)
	}
	return nil
}

// Load reads a PatchCollection previously written by Save. A stream
// that cannot be decoded results in a CorruptError.
func Load(r io.Reader) (PatchCollection, error) {
	dec := gob.NewDecoder(r)
	var pc PatchCollection
	if err := dec.Decode(&pc); err != nil {
		return nil, CorruptError{Err: err}
	}
	return pc, nil
}

// CorruptError means a patch file exists but cannot be deserialized,
// for example because the process that wrote it was killed mid-write.
// It is deliberately never handled by rebuilding: the operator must
// delete the file or request a forced rebuild, so that a truncated
// artifact is not silently replaced with a different one.
type CorruptError struct {
	// Path is the location of the corrupt file, when known.
	Path string
	// Err is the underlying deserialization error.
	Err error
}

func (e CorruptError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("meshpatch: corrupt patch file: %v", e.Err)
	}
	return fmt.Sprintf("meshpatch: corrupt patch file %s: %v (delete it, or rerun with force set)",
		e.Path, e.Err)
}

// Cache memoizes patch construction on durable storage. Each patch
// collection is stored at a filesystem path that identifies the mesh it
// was built from; see DefaultKey and HashKey.
//
// Cache does not coordinate concurrent access to the files it manages:
// each file is opened, read or written, and closed within a single call.
type Cache struct {
	// Progress, if non-nil, receives status notifications during
	// builds.
	Progress ProgressReporter

	// MemCacheSize is the number of patch collections held in an
	// in-process memory cache, so that repeated requests for the same
	// path do not re-read the file. The default is 1.
	MemCacheSize int

	mx    sync.Mutex
	cache *requestcache.Cache
}

// memo returns the in-process memoization layer, creating it if
// necessary.
func (c *Cache) memo() *requestcache.Cache {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.cache == nil {
		n := c.MemCacheSize
		if n <= 0 {
			n = 1
		}
		c.cache = requestcache.NewCache(c.process, 1,
			requestcache.Deduplicate(), requestcache.Memory(n))
	}
	return c.cache
}

type patchRequest struct {
	mesh Mesh
	path string
}

// Get returns the patch collection for mesh, stored at path. If path
// is empty, DefaultKey(mesh) is used. An existing file at path is
// loaded and returned; otherwise the patches are built, persisted at
// path, and returned. If force is true the file is rebuilt and
// overwritten even if it already exists.
//
// A file that exists but cannot be decoded causes a CorruptError
// (unless force is true); see CorruptError for why that is not treated
// as a miss.
func (c *Cache) Get(mesh Mesh, path string, force bool) (PatchCollection, error) {
	if path == "" {
		path = DefaultKey(mesh)
	}
	if force {
		pc, err := c.buildAndSave(mesh, path)
		if err != nil {
			return nil, err
		}
		// Drop the memoized results so that later lookups observe the
		// overwritten file rather than a stale collection.
		c.mx.Lock()
		c.cache = nil
		c.mx.Unlock()
		return pc, nil
	}
	req := c.memo().NewRequest(context.TODO(), patchRequest{mesh: mesh, path: path}, path)
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(PatchCollection), nil
}

// process loads the patch collection at the requested path, building
// and persisting it first if the file doesn't exist.
func (c *Cache) process(ctx context.Context, request interface{}) (interface{}, error) {
	req := request.(patchRequest)
	pc, err := c.load(req.path)
	if err == nil {
		return pc, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	return c.buildAndSave(req.mesh, req.path)
}

// load reads the patch file at path. A missing file is reported with an
// os.IsNotExist error; an unreadable one with a CorruptError.
func (c *Cache) load(path string) (PatchCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	pc, err := Load(f)
	if err != nil {
		if ce, ok := err.(CorruptError); ok {
			ce.Path = path
			return nil, ce
		}
		return nil, err
	}
	return pc, nil
}

func (c *Cache) buildAndSave(mesh Mesh, path string) (PatchCollection, error) {
	pc, err := Build(mesh, c.Progress)
	if err != nil {
		return nil, err
	}
	w, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("meshpatch: creating patch file: %v", err)
	}
	if err := Save(w, pc); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("meshpatch: writing patch file %s: %v", path, err)
	}
	return pc, nil
}
