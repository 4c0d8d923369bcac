package torrentfile

import (
	"crypto/sha1"

	"github.com/fuchsi/torrentinfo/bencode"
)

// hashSize is the length of a piece digest and of the info hash.
const hashSize = sha1.Size

// FromBytes decodes a .torrent file into a Torrent. The whole buffer
// must be a single bencode dictionary. Optional fields that are absent
// stay absent; a missing piece length maps to 0 and a missing pieces
// blob to empty, so partially malformed files still decode. The first
// structural or mapping error aborts the decode with no partial
// result.
func FromBytes(data []byte) (*Torrent, error) {
	v, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}
	root, ok := v.(bencode.Dict)
	if !ok {
		return nil, &TypeMismatchError{Field: "torrent", Want: "dictionary"}
	}

	t := &Torrent{}
	if t.announce, err = lookupString(root, "announce"); err != nil {
		return nil, err
	}
	if t.announceList, err = lookupAnnounceList(root); err != nil {
		return nil, err
	}
	if t.comment, err = lookupString(root, "comment"); err != nil {
		return nil, err
	}
	if t.createdBy, err = lookupString(root, "created by"); err != nil {
		return nil, err
	}
	if t.creationDate, err = lookupInt(root, "creation date"); err != nil {
		return nil, err
	}
	if t.encoding, err = lookupString(root, "encoding"); err != nil {
		return nil, err
	}
	if t.nodes, err = lookupNodes(root); err != nil {
		return nil, err
	}
	if t.httpSeeds, err = lookupStringList(root, "httpseeds"); err != nil {
		return nil, err
	}

	iv, ok := root.Get("info")
	if !ok {
		return nil, &MissingFieldError{Field: "info"}
	}
	infoDict, ok := iv.(bencode.Dict)
	if !ok {
		return nil, &TypeMismatchError{Field: "info", Want: "dictionary"}
	}
	if err := mapInfo(infoDict, &t.info); err != nil {
		return nil, err
	}
	return t, nil
}

func mapInfo(d bencode.Dict, info *Info) error {
	var err error
	if info.name, err = lookupString(d, "name"); err != nil {
		return err
	}
	if info.length, err = lookupInt(d, "length"); err != nil {
		return err
	}
	if info.md5sum, err = lookupString(d, "md5sum"); err != nil {
		return err
	}
	if info.files, err = lookupFiles(d); err != nil {
		return err
	}
	if info.private, err = lookupInt(d, "private"); err != nil {
		return err
	}
	if info.rootHash, err = lookupString(d, "root hash"); err != nil {
		return err
	}

	// Mandatory fields, with tolerant defaults for files seen in the
	// wild that omit them.
	pl, err := lookupInt(d, "piece length")
	if err != nil {
		return err
	}
	if pl != nil {
		info.pieceLength = *pl
	}
	info.pieces = []byte{}
	if v, ok := d.Get("pieces"); ok {
		s, ok := v.(bencode.String)
		if !ok {
			return &TypeMismatchError{Field: "pieces", Want: "string"}
		}
		info.pieces = []byte(s)
	}
	return nil
}

func lookupFiles(d bencode.Dict) ([]File, error) {
	v, ok := d.Get("files")
	if !ok {
		return nil, nil
	}
	l, ok := v.(bencode.List)
	if !ok {
		return nil, &TypeMismatchError{Field: "files", Want: "list"}
	}
	files := make([]File, 0, len(l))
	for _, fv := range l {
		fd, ok := fv.(bencode.Dict)
		if !ok {
			return nil, &TypeMismatchError{Field: "files", Want: "list of dictionaries"}
		}
		var f File
		length, err := lookupInt(fd, "length")
		if err != nil {
			return nil, err
		}
		if length == nil {
			return nil, &MissingFieldError{Field: "files.length"}
		}
		f.length = *length
		path, err := lookupStringList(fd, "path")
		if err != nil {
			return nil, err
		}
		if path == nil {
			return nil, &MissingFieldError{Field: "files.path"}
		}
		f.path = path
		if f.md5sum, err = lookupString(fd, "md5sum"); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func lookupNodes(d bencode.Dict) ([]Node, error) {
	v, ok := d.Get("nodes")
	if !ok {
		return nil, nil
	}
	l, ok := v.(bencode.List)
	if !ok {
		return nil, &TypeMismatchError{Field: "nodes", Want: "list"}
	}
	nodes := make([]Node, 0, len(l))
	for _, nv := range l {
		pair, ok := nv.(bencode.List)
		if !ok || len(pair) != 2 {
			return nil, &TypeMismatchError{Field: "nodes", Want: "[host, port] pair"}
		}
		host, ok := pair[0].(bencode.String)
		if !ok {
			return nil, &TypeMismatchError{Field: "nodes.host", Want: "string"}
		}
		port, ok := pair[1].(bencode.Integer)
		if !ok {
			return nil, &TypeMismatchError{Field: "nodes.port", Want: "integer"}
		}
		nodes = append(nodes, Node{Host: string(host), Port: int64(port)})
	}
	return nodes, nil
}

func lookupAnnounceList(d bencode.Dict) ([][]string, error) {
	v, ok := d.Get("announce-list")
	if !ok {
		return nil, nil
	}
	l, ok := v.(bencode.List)
	if !ok {
		return nil, &TypeMismatchError{Field: "announce-list", Want: "list"}
	}
	tiers := make([][]string, 0, len(l))
	for _, tv := range l {
		tl, ok := tv.(bencode.List)
		if !ok {
			return nil, &TypeMismatchError{Field: "announce-list", Want: "list of lists"}
		}
		tier := make([]string, 0, len(tl))
		for _, uv := range tl {
			u, ok := uv.(bencode.String)
			if !ok {
				return nil, &TypeMismatchError{Field: "announce-list", Want: "list of string lists"}
			}
			tier = append(tier, string(u))
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

func lookupString(d bencode.Dict, key string) (*string, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, nil
	}
	s, ok := v.(bencode.String)
	if !ok {
		return nil, &TypeMismatchError{Field: key, Want: "string"}
	}
	str := string(s)
	return &str, nil
}

func lookupInt(d bencode.Dict, key string) (*int64, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, nil
	}
	i, ok := v.(bencode.Integer)
	if !ok {
		return nil, &TypeMismatchError{Field: key, Want: "integer"}
	}
	n := int64(i)
	return &n, nil
}

func lookupStringList(d bencode.Dict, key string) ([]string, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, nil
	}
	l, ok := v.(bencode.List)
	if !ok {
		return nil, &TypeMismatchError{Field: key, Want: "list"}
	}
	out := make([]string, 0, len(l))
	for _, sv := range l {
		s, ok := sv.(bencode.String)
		if !ok {
			return nil, &TypeMismatchError{Field: key, Want: "list of strings"}
		}
		out = append(out, string(s))
	}
	return out, nil
}

// InfoHash is the SHA-1 digest of the canonically re-encoded info
// dictionary. It is computed once and cached; the result does not
// depend on the key order or formatting of the original input. An
// Info built by hand without a pieces blob is a contract violation
// reported as MissingFieldError.
func (t *Torrent) InfoHash() ([20]byte, error) {
	t.hashOnce.Do(func() {
		d, err := t.info.value()
		if err != nil {
			t.hashErr = err
			return
		}
		t.hash = sha1.Sum(bencode.Encode(d))
	})
	return t.hash, t.hashErr
}

// value projects the Info back into a bencode tree for hashing.
// Absent optional fields are omitted entirely; piece length and
// pieces are always emitted.
func (i *Info) value() (bencode.Dict, error) {
	if i.pieces == nil {
		return nil, &MissingFieldError{Field: "pieces"}
	}
	var d bencode.Dict
	if i.files != nil {
		fl := make(bencode.List, 0, len(i.files))
		for _, f := range i.files {
			var fd bencode.Dict
			fd = fd.Set("length", bencode.Integer(f.length))
			if f.md5sum != nil {
				fd = fd.Set("md5sum", bencode.String(*f.md5sum))
			}
			pl := make(bencode.List, 0, len(f.path))
			for _, seg := range f.path {
				pl = append(pl, bencode.String(seg))
			}
			fd = fd.Set("path", pl)
			fl = append(fl, fd)
		}
		d = d.Set("files", fl)
	}
	if i.length != nil {
		d = d.Set("length", bencode.Integer(*i.length))
	}
	if i.md5sum != nil {
		d = d.Set("md5sum", bencode.String(*i.md5sum))
	}
	if i.name != nil {
		d = d.Set("name", bencode.String(*i.name))
	}
	d = d.Set("piece length", bencode.Integer(i.pieceLength))
	d = d.Set("pieces", bencode.String(i.pieces))
	if i.private != nil {
		d = d.Set("private", bencode.Integer(*i.private))
	}
	if i.rootHash != nil {
		d = d.Set("root hash", bencode.String(*i.rootHash))
	}
	return d, nil
}

// PieceHashes splits the raw pieces blob into its 20-byte digests.
func (i *Info) PieceHashes() ([][20]byte, error) {
	if len(i.pieces)%hashSize != 0 {
		return nil, ErrPieceAlignment
	}
	hashes := make([][20]byte, len(i.pieces)/hashSize)
	for n := range hashes {
		copy(hashes[n][:], i.pieces[n*hashSize:(n+1)*hashSize])
	}
	return hashes, nil
}
