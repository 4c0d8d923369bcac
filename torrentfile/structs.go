// Package torrentfile maps .torrent metadata onto a typed model and
// derives the info hash that identifies the torrent's swarm.
package torrentfile

import "sync"

// Torrent is the decoded metadata of a .torrent file. Every field
// except Info is optional; absent fields are reported through the
// comma-ok accessors and are distinguishable from empty values.
// A Torrent is immutable after FromBytes and safe for concurrent use.
type Torrent struct {
	announce     *string
	announceList [][]string
	comment      *string
	createdBy    *string
	creationDate *int64
	encoding     *string
	nodes        []Node
	httpSeeds    []string
	info         Info

	hashOnce sync.Once
	hash     [20]byte
	hashErr  error
}

// Node is a DHT bootstrap node from the optional "nodes" field.
type Node struct {
	Host string
	Port int64
}

// Info is the info dictionary: either single-file (Length set) or
// multi-file (Files set, Name acting as the root directory).
type Info struct {
	name        *string
	length      *int64
	md5sum      *string
	files       []File
	pieceLength int64
	pieces      []byte
	private     *int64
	rootHash    *string
}

// File is one entry of a multi-file torrent.
type File struct {
	length int64
	path   []string
	md5sum *string
}

// NewFile builds a File by hand. The CLI uses it to synthesize the
// single entry of a single-file torrent from the info name and length.
func NewFile(length int64, path []string) File {
	return File{length: length, path: path}
}

func (t *Torrent) Info() *Info { return &t.info }

func (t *Torrent) Announce() (string, bool) { return optStr(t.announce) }

func (t *Torrent) AnnounceList() ([][]string, bool) {
	return t.announceList, t.announceList != nil
}

func (t *Torrent) Comment() (string, bool)   { return optStr(t.comment) }
func (t *Torrent) CreatedBy() (string, bool) { return optStr(t.createdBy) }

// CreationDate is seconds since the Unix epoch; it may be negative.
func (t *Torrent) CreationDate() (int64, bool) { return optInt(t.creationDate) }

func (t *Torrent) Encoding() (string, bool) { return optStr(t.encoding) }

func (t *Torrent) Nodes() ([]Node, bool) { return t.nodes, t.nodes != nil }

func (t *Torrent) HTTPSeeds() ([]string, bool) { return t.httpSeeds, t.httpSeeds != nil }

// Files returns the declared file list, absent for single-file
// torrents. The caller synthesizes a single File from the info name
// and length when it needs a uniform view.
func (t *Torrent) Files() ([]File, bool) { return t.info.Files() }

// NumFiles is the number of declared files, or 1 for a single-file
// torrent.
func (t *Torrent) NumFiles() int {
	if t.info.files == nil {
		return 1
	}
	return len(t.info.files)
}

// TotalSize sums the declared file lengths, or returns the single
// declared length. Negative lengths and sums that overflow int64 are
// a RangeError, never clamped.
func (t *Torrent) TotalSize() (int64, error) {
	if t.info.files == nil {
		var length int64
		if t.info.length != nil {
			length = *t.info.length
		}
		if length < 0 {
			return 0, &RangeError{Field: "length", Value: length}
		}
		return length, nil
	}
	var total int64
	for _, f := range t.info.files {
		if f.length < 0 {
			return 0, &RangeError{Field: "files.length", Value: f.length}
		}
		total += f.length
		if total < 0 {
			return 0, &RangeError{Field: "files.length", Value: total}
		}
	}
	return total, nil
}

func (i *Info) Name() (string, bool)   { return optStr(i.name) }
func (i *Info) Length() (int64, bool)  { return optInt(i.length) }
func (i *Info) MD5Sum() (string, bool) { return optStr(i.md5sum) }

func (i *Info) Files() ([]File, bool) { return i.files, i.files != nil }

// PieceLength is the number of bytes per piece. Zero when the field
// was absent from the input.
func (i *Info) PieceLength() int64 { return i.pieceLength }

// Pieces is the raw concatenated piece-digest blob.
func (i *Info) Pieces() []byte { return i.pieces }

// Private reports the private flag; absent means not private.
func (i *Info) Private() (int64, bool) { return optInt(i.private) }

func (i *Info) RootHash() (string, bool) { return optStr(i.rootHash) }

func (f *File) Length() int64 { return f.length }

// Path is the file path as segments; join with the platform separator.
func (f *File) Path() []string { return f.path }

func (f *File) MD5Sum() (string, bool) { return optStr(f.md5sum) }

func optStr(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

func optInt(p *int64) (int64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
