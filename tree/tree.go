// Package tree digests a directory hierarchy. Every file and directory gets
// its own digest and the root digest identifies the whole tree.
package tree

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"RipeDigest/enc"

	"github.com/decred/dcrwallet/errors/v2"
	"golang.org/x/sync/errgroup"
)

// Node is one entry of a digested tree. Symbolic links are leaves: they are
// never followed and their digest covers the link target text only.
type Node struct {
	IsDir    bool
	IsLink   bool
	RelPath  string
	Target   string
	Digest   string
	FileSize int64
	Children []*Node
}

func fileDigest(relPath string, data []byte, size int64) string {
	buf := make([]byte, 0, 4+len(relPath)+8+len(data))
	buf = append(buf, "FILE"...)
	buf = append(buf, relPath...)
	buf = appendUint64(buf, uint64(size))
	buf = append(buf, data...)
	return enc.Digest(buf)
}

func linkDigest(relPath, target string) string {
	buf := make([]byte, 0, 4+len(relPath)+8+len(target))
	buf = append(buf, "LINK"...)
	buf = append(buf, relPath...)
	buf = appendUint64(buf, uint64(len(target)))
	buf = append(buf, target...)
	return enc.Digest(buf)
}

func dirDigest(dir *Node) string {
	buf := append([]byte("DIR"), dir.RelPath...)
	buf = appendUint64(buf, uint64(len(dir.Children)))
	for _, c := range dir.Children {
		buf = append(buf, c.RelPath...)
		raw, _ := hex.DecodeString(c.Digest)
		buf = append(buf, raw...)
	}
	return enc.Digest(buf)
}

func appendUint64(b []byte, v uint64) []byte {
	var sz [8]byte
	binary.BigEndian.PutUint64(sz[:], v)
	return append(b, sz[:]...)
}

// scan builds the node skeleton for absPath and collects every file node so
// their contents can be digested concurrently. Entries that are neither
// regular files, directories nor symlinks (sockets, devices, pipes) yield a
// nil node and are left out of the tree.
func scan(absPath, relPath string, files *[]*Node, abs map[*Node]string) (*Node, error) {
	const op errors.Op = "tree.scan"
	fi, err := os.Lstat(absPath)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	mode := fi.Mode()
	switch {
	case mode&os.ModeSymlink != 0:
		target, err := os.Readlink(absPath)
		if err != nil {
			return nil, errors.E(op, errors.IO, err)
		}
		return &Node{IsLink: true, RelPath: relPath, Target: target,
			Digest: linkDigest(relPath, target)}, nil
	case !mode.IsDir() && !mode.IsRegular():
		log.Debugf("Skipping %s (%v)", absPath, mode.Type())
		return nil, nil
	}
	node := &Node{IsDir: fi.IsDir(), RelPath: relPath}
	if !node.IsDir {
		node.FileSize = fi.Size()
		*files = append(*files, node)
		abs[node] = absPath
		return node, nil
	}
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, e := range entries {
		child, err := scan(filepath.Join(absPath, e.Name()),
			filepath.ToSlash(filepath.Join(relPath, e.Name())), files, abs)
		if err != nil {
			return nil, err
		}
		if child == nil {
			continue
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

// finish fills in directory digests bottom-up once all file digests exist.
func finish(n *Node) {
	if !n.IsDir {
		return
	}
	for _, c := range n.Children {
		finish(c)
	}
	n.Digest = dirDigest(n)
}

// Compute digests the tree rooted at baseDir. At most workers files are read
// at once; workers <= 0 selects GOMAXPROCS. Symbolic links below baseDir are
// recorded by target and never followed, so link cycles terminate.
func Compute(ctx context.Context, baseDir string, workers int) (*Node, error) {
	const op errors.Op = "tree.Compute"
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.E(op, errors.Invalid, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, errors.E(op, errors.NotExist, err)
	}
	if !fi.IsDir() {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("%s is not a directory", baseDir))
	}
	// The root itself may be a link to a directory; links below it are not
	// followed.
	if abs, err = filepath.EvalSymlinks(abs); err != nil {
		return nil, errors.E(op, errors.IO, err)
	}

	var files []*Node
	paths := make(map[*Node]string)
	root, err := scan(abs, ".", &files, paths)
	if err != nil {
		return nil, errors.E(op, err)
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, n := range files {
		n, path := n, paths[n]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.E(op, errors.IO, err)
			}
			n.FileSize = int64(len(data))
			n.Digest = fileDigest(n.RelPath, data, n.FileSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	finish(root)
	log.Debugf("Digested %d files under %s: %s", len(files), baseDir, root.Digest)
	return root, nil
}

// ComputeDigest returns the root digest of the tree at baseDir.
func ComputeDigest(ctx context.Context, baseDir string) (string, error) {
	root, err := Compute(ctx, baseDir, 0)
	if err != nil {
		return "", err
	}
	return root.Digest, nil
}
