package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/retrohex/prodigydat/internal/stage/stagefile"
)

func main() {
	path := flag.String("stagefile", "", "path to STAGE.DAT")
	flag.Parse()
	if *path == "" {
		log.Fatal("-stagefile required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("ReadFile: %v", err)
	}

	sf, err := stagefile.Load(data)
	if err != nil {
		log.Fatalf("Load: %v", err)
	}

	p := sf.Prologue
	fmt.Printf("structureLevel=%d class=%d auQuantaSize=%d auStartOffset=%d\n", p.StructureLevel, p.Class, p.AUQuantaSize, p.AUStartOffset)
	fmt.Printf("mapWidth=%d maxMapEntries=%d dirTotByteSize=%d curStartIdx=%d prologueStartID=%d\n", p.MapWidth, p.MaxMapEntries, p.DirTotByteSize, p.CurStartIdx, p.PrologueStartID)

	for i, m := range sf.AUMaps {
		fmt.Printf("AUM[%d]: len=%d\n", i, m.Len())
	}

	for i, d := range sf.Dirs {
		fmt.Printf("Dir[%d]: inUse=%d maximum=%d\n", i, d.InUse, d.Maximum)
	}

	dir := sf.Dir()
	n := int(dir.InUse)
	if n > 20 {
		n = 20
	}
	for i := 0; i < n; i++ {
		entry, err := dir.Entry(i)
		if err != nil {
			fmt.Printf("entry %d: %v\n", i, err)
			continue
		}
		fmt.Printf("- %3d %s size=%d status=%d\n", i, entry.ID.DisplayName('.', '_'), entry.Length, entry.Status)
	}
}
