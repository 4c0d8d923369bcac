package torrentfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fuchsi/torrentinfo/bencode"
)

const (
	singleFileVector = "d8:announce22:http://example.com/ann4:infod6:lengthi100e4:name8:test.txt12:piece lengthi16384e6:pieces20:AAAAAAAAAAAAAAAAAAAAee"

	// Same torrent with every dictionary in scrambled key order.
	singleFileScrambled = "d4:infod6:pieces20:AAAAAAAAAAAAAAAAAAAA4:name8:test.txt12:piece lengthi16384e6:lengthi100ee8:announce22:http://example.com/anne"

	// SHA-1 of the canonical info dictionary of the vector above.
	singleFileInfoHash = "e0f88e7421116c1359e9063ebcc8ac80da0fdac3"
)

func mustDecode(t *testing.T, input string) *Torrent {
	t.Helper()
	torrent, err := FromBytes([]byte(input))
	if err != nil {
		t.Fatalf("Failed to decode torrent: %v", err)
	}
	return torrent
}

func Test_KnownVector(t *testing.T) {
	torrent := mustDecode(t, singleFileVector)

	if v, ok := torrent.Announce(); !ok || v != "http://example.com/ann" {
		t.Errorf("Expected announce http://example.com/ann, got %q (%v)", v, ok)
	}
	if v, ok := torrent.Info().Name(); !ok || v != "test.txt" {
		t.Errorf("Expected name test.txt, got %q (%v)", v, ok)
	}
	if v, ok := torrent.Info().Length(); !ok || v != 100 {
		t.Errorf("Expected length 100, got %d (%v)", v, ok)
	}
	if v := torrent.Info().PieceLength(); v != 16384 {
		t.Errorf("Expected piece length 16384, got %d", v)
	}

	hashes, err := torrent.Info().PieceHashes()
	if err != nil {
		t.Fatalf("Failed to split pieces: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("Expected 1 piece hash, got %d", len(hashes))
	}
	if !bytes.Equal(hashes[0][:], bytes.Repeat([]byte("A"), 20)) {
		t.Errorf("Expected piece hash of 20 'A' bytes, got %v", hashes[0])
	}

	hash, err := torrent.InfoHash()
	if err != nil {
		t.Fatalf("Failed to calculate info hash: %v", err)
	}
	if got := ToHex(hash[:]); got != singleFileInfoHash {
		t.Errorf("Expected info hash %s, got %s", singleFileInfoHash, got)
	}
}

func Test_InfoHashIgnoresInputKeyOrder(t *testing.T) {
	sorted := mustDecode(t, singleFileVector)
	scrambled := mustDecode(t, singleFileScrambled)

	h1, err := sorted.InfoHash()
	if err != nil {
		t.Fatalf("Failed to calculate info hash: %v", err)
	}
	h2, err := scrambled.InfoHash()
	if err != nil {
		t.Fatalf("Failed to calculate info hash: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Expected identical hashes, got %x and %x", h1, h2)
	}
	if got := ToHex(h2[:]); got != singleFileInfoHash {
		t.Errorf("Expected info hash %s, got %s", singleFileInfoHash, got)
	}
}

func Test_InfoHashIsCached(t *testing.T) {
	torrent := mustDecode(t, singleFileVector)
	h1, _ := torrent.InfoHash()
	h2, _ := torrent.InfoHash()
	if h1 != h2 {
		t.Errorf("Expected stable cached hash, got %x and %x", h1, h2)
	}
}

func Test_InfoHashMissingPiecesContract(t *testing.T) {
	// A hand-built zero Info has no pieces blob at all; that is a
	// caller contract violation, not a tolerated default.
	var torrent Torrent
	_, err := torrent.InfoHash()
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "pieces" {
		t.Errorf("Expected MissingFieldError for pieces, got %v", err)
	}
}

const multiFileVector = "d4:infod5:filesl" +
	"d6:lengthi10e4:pathl1:aee" +
	"d6:lengthi20e4:pathl1:bee" +
	"d6:lengthi30e4:pathl3:dir8:file.txtee" +
	"e4:name4:root12:piece lengthi16384e6:pieces0:ee"

func Test_MultiFileSizeAggregation(t *testing.T) {
	torrent := mustDecode(t, multiFileVector)

	if n := torrent.NumFiles(); n != 3 {
		t.Errorf("Expected 3 files, got %d", n)
	}
	size, err := torrent.TotalSize()
	if err != nil {
		t.Fatalf("Failed to sum sizes: %v", err)
	}
	if size != 60 {
		t.Errorf("Expected total size 60, got %d", size)
	}

	files, ok := torrent.Files()
	if !ok {
		t.Fatal("Expected files to be present")
	}
	if got := strings.Join(files[2].Path(), "/"); got != "dir/file.txt" {
		t.Errorf("Expected path segments dir/file.txt, got %q", got)
	}
	if files[2].Length() != 30 {
		t.Errorf("Expected length 30, got %d", files[2].Length())
	}
}

func Test_SingleFileSizeAggregation(t *testing.T) {
	torrent := mustDecode(t, "d4:infod6:lengthi42e4:name1:x12:piece lengthi1e6:pieces0:ee")

	if n := torrent.NumFiles(); n != 1 {
		t.Errorf("Expected 1 file, got %d", n)
	}
	size, err := torrent.TotalSize()
	if err != nil {
		t.Fatalf("Failed to get size: %v", err)
	}
	if size != 42 {
		t.Errorf("Expected total size 42, got %d", size)
	}
	if _, ok := torrent.Files(); ok {
		t.Error("Expected no files list for a single-file torrent")
	}
}

func Test_NegativeLengthIsRangeError(t *testing.T) {
	torrent := mustDecode(t, "d4:infod6:lengthi-1e4:name1:x12:piece lengthi1e6:pieces0:ee")
	_, err := torrent.TotalSize()
	var re *RangeError
	if !errors.As(err, &re) || re.Value != -1 {
		t.Errorf("Expected RangeError for -1, got %v", err)
	}

	torrent = mustDecode(t, "d4:infod5:filesld6:lengthi-5e4:pathl1:aeee4:name1:x12:piece lengthi1e6:pieces0:ee")
	_, err = torrent.TotalSize()
	if !errors.As(err, &re) || re.Value != -5 {
		t.Errorf("Expected RangeError for -5, got %v", err)
	}
}

func Test_PieceAlignment(t *testing.T) {
	aligned := strings.Repeat("B", 40)
	torrent := mustDecode(t, "d4:infod6:lengthi1e4:name1:x12:piece lengthi1e6:pieces40:"+aligned+"ee")
	hashes, err := torrent.Info().PieceHashes()
	if err != nil {
		t.Fatalf("Failed to split pieces: %v", err)
	}
	if len(hashes) != 2 {
		t.Errorf("Expected 2 piece hashes, got %d", len(hashes))
	}

	ragged := strings.Repeat("B", 30)
	torrent = mustDecode(t, "d4:infod6:lengthi1e4:name1:x12:piece lengthi1e6:pieces30:"+ragged+"ee")
	_, err = torrent.Info().PieceHashes()
	if !errors.Is(err, ErrPieceAlignment) {
		t.Errorf("Expected ErrPieceAlignment, got %v", err)
	}
}

func Test_TolerantMissingPieceFields(t *testing.T) {
	// Real-world files sometimes omit the mandatory piece fields; the
	// decode substitutes zero/empty instead of failing.
	torrent := mustDecode(t, "d4:infod4:name1:aee")
	if v := torrent.Info().PieceLength(); v != 0 {
		t.Errorf("Expected piece length 0, got %d", v)
	}
	if v := torrent.Info().Pieces(); v == nil || len(v) != 0 {
		t.Errorf("Expected empty pieces blob, got %v", v)
	}
	hashes, err := torrent.Info().PieceHashes()
	if err != nil || len(hashes) != 0 {
		t.Errorf("Expected 0 piece hashes, got %d (%v)", len(hashes), err)
	}
}

func Test_OptionalFieldsAbsent(t *testing.T) {
	torrent := mustDecode(t, "d4:infod4:name1:aee")

	if _, ok := torrent.Announce(); ok {
		t.Error("Expected announce to be absent")
	}
	if _, ok := torrent.Comment(); ok {
		t.Error("Expected comment to be absent")
	}
	if _, ok := torrent.CreationDate(); ok {
		t.Error("Expected creation date to be absent")
	}
	if _, ok := torrent.Info().Private(); ok {
		t.Error("Expected private flag to be absent")
	}
	if _, ok := torrent.Info().Length(); ok {
		t.Error("Expected length to be absent")
	}
}

func Test_AbsentDistinctFromEmpty(t *testing.T) {
	torrent := mustDecode(t, "d7:comment0:4:infod4:name1:aee")
	v, ok := torrent.Comment()
	if !ok || v != "" {
		t.Errorf("Expected present empty comment, got %q (%v)", v, ok)
	}
}

func Test_OptionalFieldsPresent(t *testing.T) {
	input := "d" +
		"8:announce22:http://example.com/ann" +
		"13:announce-listll22:http://example.com/annel21:http://backup.org/annee" +
		"7:comment4:test" +
		"10:created by9:mktorrent" +
		"13:creation datei1693000000e" +
		"8:encoding5:UTF-8" +
		"9:httpseedsl23:http://seed.example.come" +
		"4:infod6:lengthi100e4:name8:test.txt12:piece lengthi16384e6:pieces20:AAAAAAAAAAAAAAAAAAAA7:privatei1e9:root hash4:beefe" +
		"5:nodesll9:127.0.0.1i6881eel7:dht.devi6881eee" +
		"e"
	torrent := mustDecode(t, input)

	tiers, ok := torrent.AnnounceList()
	if !ok || len(tiers) != 2 || tiers[1][0] != "http://backup.org/ann" {
		t.Errorf("Expected two announce tiers, got %v", tiers)
	}
	if v, _ := torrent.Comment(); v != "test" {
		t.Errorf("Expected comment test, got %q", v)
	}
	if v, _ := torrent.CreatedBy(); v != "mktorrent" {
		t.Errorf("Expected created by mktorrent, got %q", v)
	}
	if v, _ := torrent.CreationDate(); v != 1693000000 {
		t.Errorf("Expected creation date 1693000000, got %d", v)
	}
	if v, _ := torrent.Encoding(); v != "UTF-8" {
		t.Errorf("Expected encoding UTF-8, got %q", v)
	}
	seeds, ok := torrent.HTTPSeeds()
	if !ok || len(seeds) != 1 || seeds[0] != "http://seed.example.com" {
		t.Errorf("Expected one http seed, got %v", seeds)
	}
	nodes, ok := torrent.Nodes()
	if !ok || len(nodes) != 2 || nodes[0].Host != "127.0.0.1" || nodes[0].Port != 6881 {
		t.Errorf("Expected two nodes starting with 127.0.0.1:6881, got %v", nodes)
	}
	if v, ok := torrent.Info().Private(); !ok || v != 1 {
		t.Errorf("Expected private flag 1, got %d (%v)", v, ok)
	}
	if v, ok := torrent.Info().RootHash(); !ok || v != "beef" {
		t.Errorf("Expected root hash beef, got %q (%v)", v, ok)
	}
}

func Test_MissingInfoDict(t *testing.T) {
	_, err := FromBytes([]byte("de"))
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "info" {
		t.Errorf("Expected MissingFieldError for info, got %v", err)
	}
}

func Test_TypeMismatch(t *testing.T) {
	for _, input := range []string{
		"d8:announcei1e4:infod4:name1:aee", // announce is an integer
		"d4:infoi1ee",                      // info is an integer
		"d4:infod6:piecesi1eee",            // pieces is an integer
		"d4:infod5:filesi1eee",             // files is an integer
	} {
		_, err := FromBytes([]byte(input))
		var mismatch *TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("Expected TypeMismatchError for %q, got %v", input, err)
		}
	}
}

func Test_FileEntryMandatoryFields(t *testing.T) {
	_, err := FromBytes([]byte("d4:infod5:filesld4:pathl1:aeee4:name1:xee"))
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "files.length" {
		t.Errorf("Expected MissingFieldError for files.length, got %v", err)
	}

	_, err = FromBytes([]byte("d4:infod5:filesld6:lengthi1eee4:name1:xee"))
	if !errors.As(err, &missing) || missing.Field != "files.path" {
		t.Errorf("Expected MissingFieldError for files.path, got %v", err)
	}
}

func Test_TruncatedInputIsStructuralError(t *testing.T) {
	_, err := FromBytes([]byte("d8:announce"))
	var se *bencode.SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("Expected SyntaxError, got %v", err)
	}
}

func Test_NewFileForSynthesis(t *testing.T) {
	f := NewFile(42, []string{"test.txt"})
	if f.Length() != 42 {
		t.Errorf("Expected length 42, got %d", f.Length())
	}
	if len(f.Path()) != 1 || f.Path()[0] != "test.txt" {
		t.Errorf("Expected path [test.txt], got %v", f.Path())
	}
	if _, ok := f.MD5Sum(); ok {
		t.Error("Expected md5sum to be absent")
	}
}
