package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/fuchsi/torrentinfo/bencode"
	"github.com/fuchsi/torrentinfo/torrentfile"
)

const (
	indent   = "    "
	colWidth = 19
)

func printHelp() {
	fmt.Printf("torrentinfo V1.0\nUsage:\n\ttorrentinfo [flags] <torrentfile>\n")
	flag.PrintDefaults()
}

func main() {
	showFiles := flag.Bool("f", false, "Show files within the torrent")
	showDetails := flag.Bool("d", false, "Show detailed information about the torrent")
	showEverything := flag.Bool("e", false, "Print everything about the torrent")
	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		printHelp()
		os.Exit(2)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		logrus.Fatalf("Error while opening file: %s", err)
	}

	fmt.Println(filepath.Base(args[0]))

	if *showEverything {
		printEverything(data)
		return
	}

	torrent, err := torrentfile.FromBytes(data)
	if err != nil {
		logrus.Fatalf("Error while parsing torrent file: %s", err)
	}

	if !*showDetails {
		printSummary(torrent)
	}
	if *showFiles || *showDetails {
		printFiles(torrent)
	}
	if *showDetails {
		printDetails(torrent)
	}
}

func printSummary(torrent *torrentfile.Torrent) {
	if v, ok := torrent.Info().Name(); ok {
		printLine("name", v)
	}
	if v, ok := torrent.Comment(); ok {
		printLine("comment", v)
	}
	if v, ok := torrent.Announce(); ok {
		printLine("announce url", v)
	}
	if v, ok := torrent.CreatedBy(); ok {
		printLine("created by", v)
	}
	if v, ok := torrent.CreationDate(); ok {
		printLine("created on", time.Unix(v, 0).UTC().Format(time.RFC1123))
	}
	if v, ok := torrent.Encoding(); ok {
		printLine("encoding", v)
	}
	printLine("num files", fmt.Sprintf("%d", torrent.NumFiles()))

	size, err := torrent.TotalSize()
	if err != nil {
		logrus.Fatalf("Error in torrent file sizes: %s", err)
	}
	printLine("total size", humanize.IBytes(uint64(size)))

	if hash, err := torrent.InfoHash(); err != nil {
		printLine("info hash", fmt.Sprintf("could not calculate info hash: %s", err))
	} else {
		printLine("info hash", torrentfile.ToHex(hash[:]))
	}
}

func printFiles(torrent *torrentfile.Torrent) {
	fmt.Println(indent + "files")

	files, ok := torrent.Files()
	if !ok {
		// Single-file torrent: synthesize the one entry from the
		// info name and length.
		name, _ := torrent.Info().Name()
		size, err := torrent.TotalSize()
		if err != nil {
			logrus.Fatalf("Error in torrent file sizes: %s", err)
		}
		files = []torrentfile.File{torrentfile.NewFile(size, []string{name})}
	}

	for i, file := range files {
		fmt.Printf("%s%d\n", strings.Repeat(indent, 2), i)
		fmt.Printf("%s%s\n", strings.Repeat(indent, 3), strings.Join(file.Path(), string(filepath.Separator)))
		fmt.Printf("%s%s\n", strings.Repeat(indent, 3), humanize.IBytes(uint64(file.Length())))
	}
}

func printDetails(torrent *torrentfile.Torrent) {
	info := torrent.Info()
	fmt.Println(indent + "piece length")
	fmt.Printf("%s%d\n", strings.Repeat(indent, 2), info.PieceLength())
	fmt.Println(indent + "pieces")
	fmt.Printf("%s[%d Bytes]\n", strings.Repeat(indent, 2), len(info.Pieces()))
	private, _ := info.Private()
	fmt.Println(indent + "private")
	fmt.Printf("%s%d\n", strings.Repeat(indent, 2), private)
}

// printEverything dumps the raw bencode tree, schema or no schema.
// A file that does not fit the torrent model can still be inspected,
// in its original key order.
func printEverything(data []byte) {
	v, err := bencode.Decode(data)
	if err != nil {
		logrus.Fatalf("Error while decoding torrent file: %s", err)
	}
	dict, ok := v.(bencode.Dict)
	if !ok {
		logrus.Fatal("torrent file is not a dict")
	}
	printDict(dict, 1)
}

func printDict(d bencode.Dict, depth int) {
	for _, e := range d {
		fmt.Printf("%s%s\n", strings.Repeat(indent, depth), string(e.Key))
		printValue(e.Value, depth+1)
	}
}

func printList(l bencode.List, depth int) {
	for i, v := range l {
		fmt.Printf("%s%d\n", strings.Repeat(indent, depth), i)
		printValue(v, depth+1)
	}
}

func printValue(v bencode.Value, depth int) {
	switch x := v.(type) {
	case bencode.Dict:
		printDict(x, depth)
	case bencode.List:
		printList(x, depth)
	case bencode.String:
		if len(x) > 80 {
			fmt.Printf("%s[%d Bytes]\n", strings.Repeat(indent, depth), len(x))
		} else {
			fmt.Printf("%s%s\n", strings.Repeat(indent, depth), string(x))
		}
	case bencode.Integer:
		fmt.Printf("%s%d\n", strings.Repeat(indent, depth), int64(x))
	}
}

func printLine(name, value string) {
	pad := colWidth - len(name)
	if pad < 0 {
		pad = 1
	}
	fmt.Printf("%s%s %s%s\n", indent, name, strings.Repeat(" ", pad), value)
}
