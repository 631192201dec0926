package meshpatch

import (
	"bytes"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// shiftedMesh returns testMesh with all vertices moved, so that it has
// the same cell count as testMesh but different patches.
func shiftedMesh() *MeshData {
	m := testMesh()
	lat := make([]float64, len(m.Lat))
	for i, v := range m.Lat {
		lat[i] = v + 20*math.Pi/180
	}
	m.Lat = lat
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	pc, err := Build(testMesh(), nil)
	if err != nil {
		t.Fatal(err)
	}

	buf := bytes.NewBuffer([]byte{})
	if err := Save(buf, pc); err != nil {
		t.Fatal(err)
	}
	pc2, err := Load(buf)
	if err != nil {
		t.Fatal(err)
	}

	if pc2.Len() != pc.Len() {
		t.Fatalf("loaded %d patches, want %d", pc2.Len(), pc.Len())
	}
	for i := range pc {
		if len(pc2[i][0]) != len(pc[i][0]) {
			t.Errorf("cell %d: loaded ring has %d points, want %d",
				i, len(pc2[i][0]), len(pc[i][0]))
		}
	}
	if !reflect.DeepEqual(pc, pc2) {
		t.Error("loaded patches differ from saved patches")
	}
}

func TestLoadCorrupt(t *testing.T) {
	_, err := Load(bytes.NewBufferString("not a patch file"))
	if err == nil {
		t.Fatal("expected an error loading garbage")
	}
	if _, ok := err.(CorruptError); !ok {
		t.Errorf("expected a CorruptError, got %v", err)
	}

	// A truncated (empty) stream is corruption too, not a miss.
	if _, err := Load(bytes.NewBuffer(nil)); err == nil {
		t.Error("expected an error loading an empty stream")
	}
}

func TestDefaultKey(t *testing.T) {
	if key := DefaultKey(testMesh()); key != "3.patches" {
		t.Errorf("DefaultKey = %q, want \"3.patches\"", key)
	}
	// The key is a weak identity: meshes with equal cell counts
	// collide.
	if DefaultKey(shiftedMesh()) != DefaultKey(testMesh()) {
		t.Error("DefaultKey should depend on the cell count only")
	}
}

func TestHashKey(t *testing.T) {
	k1 := HashKey(testMesh())
	if k1 != HashKey(testMesh()) {
		t.Error("HashKey is not stable for the same mesh")
	}
	if filepath.Ext(k1) != ".patches" {
		t.Errorf("HashKey %q should end in .patches", k1)
	}
	if k2 := HashKey(shiftedMesh()); k2 == k1 {
		t.Error("HashKey should distinguish meshes with equal cell counts")
	}
}

func TestCacheMissBuildsAndPersists(t *testing.T) {
	dir, err := ioutil.TempDir("", "meshpatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "test.patches")

	c := new(Cache)
	pc, err := c.Get(testMesh(), path, false)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Len() != 3 {
		t.Fatalf("built %d patches, want 3", pc.Len())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("the patch file was not persisted: %v", err)
	}
	defer f.Close()
	stored, err := Load(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(pc, stored) {
		t.Error("persisted patches differ from the returned ones")
	}
}

func TestCacheHit(t *testing.T) {
	dir, err := ioutil.TempDir("", "meshpatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "test.patches")

	// Persist patches built from one mesh, then request the same path
	// with a different mesh: a hit must return the stored patches
	// without rebuilding.
	stored, err := Build(testMesh(), nil)
	if err != nil {
		t.Fatal(err)
	}
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(w, stored); err != nil {
		t.Fatal(err)
	}
	w.Close()

	c := new(Cache)
	pc, err := c.Get(shiftedMesh(), path, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(pc, stored) {
		t.Error("a cache hit should return the stored patches unchanged")
	}
}

func TestCacheForceOverwrites(t *testing.T) {
	dir, err := ioutil.TempDir("", "meshpatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "test.patches")

	c := new(Cache)
	if _, err := c.Get(testMesh(), path, false); err != nil {
		t.Fatal(err)
	}

	want, err := Build(shiftedMesh(), nil)
	if err != nil {
		t.Fatal(err)
	}
	pc, err := c.Get(shiftedMesh(), path, true)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(pc, want) {
		t.Error("a forced rebuild should return freshly built patches")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	overwritten, err := Load(f)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(overwritten, want) {
		t.Error("a forced rebuild should overwrite the patch file")
	}

	// A later non-forced request on the same cache must observe the
	// overwritten file, not the collection memoized before the force.
	after, err := c.Get(shiftedMesh(), path, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(after, want) {
		t.Error("a non-forced request after a forced rebuild returned stale patches")
	}
}

func TestCacheCorruptIsFatal(t *testing.T) {
	dir, err := ioutil.TempDir("", "meshpatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "test.patches")

	garbage := []byte("truncated mid-write")
	if err := ioutil.WriteFile(path, garbage, 0644); err != nil {
		t.Fatal(err)
	}

	c := new(Cache)
	_, err = c.Get(testMesh(), path, false)
	if err == nil {
		t.Fatal("expected an error for a corrupt patch file")
	}
	ce, ok := err.(CorruptError)
	if !ok {
		t.Fatalf("expected a CorruptError, got %v", err)
	}
	if ce.Path != path {
		t.Errorf("CorruptError.Path = %q, want %q", ce.Path, path)
	}

	// The corrupt file must not have been rebuilt or deleted.
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, garbage) {
		t.Error("the corrupt patch file was modified")
	}
}

func TestCacheDefaultPath(t *testing.T) {
	dir, err := ioutil.TempDir("", "meshpatch")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	c := new(Cache)
	if _, err := c.Get(testMesh(), "", false); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat("3.patches"); err != nil {
		t.Errorf("expected the default key file to be created: %v", err)
	}
}
