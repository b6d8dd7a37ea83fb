package quickhull

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// PointsDumpFile is the name of the input cloud snapshot in a dump dir.
const PointsDumpFile = "quickhull-points.bin"

// DumpFileName returns the snapshot file name for iteration n.
func DumpFileName(n int) string {
	return fmt.Sprintf("quickhull-%05d.bin", n)
}

// dumper writes per-iteration snapshots for offline inspection. Write
// failures are logged; they never stop the hull.
type dumper struct {
	dir   string
	count int
}

func newDumper(dir string) *dumper {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnf("dump dir %s: %v", dir, err)
	}
	return &dumper{dir: dir}
}

func (d *dumper) points(pc *PointCloud) {
	d.write(PointsDumpFile, func(w *bufio.Writer) error {
		return pc.Write(w)
	})
}

// snapshot writes the cloud, the open and final sets, the apex, the lit
// faces and the faces created from them. The last snapshot of a run has
// apex -1 and no lit or created faces.
func (d *dumper) snapshot(pc *PointCloud, open, final *FaceSet, apex int, lit *FaceSet, created []*Triangle) {
	name := DumpFileName(d.count)
	d.count++
	d.write(name, func(w *bufio.Writer) error {
		if err := pc.Write(w); err != nil {
			return err
		}
		if err := open.Write(w); err != nil {
			return err
		}
		if err := final.Write(w); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, int32(apex)); err != nil {
			return err
		}
		if err := lit.Write(w); err != nil {
			return err
		}
		return writeTriangles(w, created)
	})
}

func (d *dumper) write(name string, fn func(w *bufio.Writer) error) {
	path := filepath.Join(d.dir, name)
	f, err := os.Create(path)
	if err != nil {
		log.Warnf("dump %s: %v", path, err)
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		log.Warnf("dump %s: %v", path, err)
		return
	}
	if err := w.Flush(); err != nil {
		log.Warnf("dump %s: %v", path, err)
	}
}
