// Package extract streams a compressed savegame and pulls out the raw
// economic facts: player assets, their connections and standing orders,
// trade log entries and account balance samples.
//
// The savegame is far too large to load as a document, so the extractor
// walks the token stream with an explicit element path and keeps only the
// handful of scoping variables it needs. Memory use is bounded by the
// extracted record counts, not by the file size.
package extract

import (
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"x4-ledger/internal/domain"
)

// ErrNoTradeRecords is returned when the savegame yields no usable trade
// entries at all. Game versions before 4.00 did not write the economy log.
var ErrNoTradeRecords = errors.New("savegame contains no economy log records")

// Result holds everything extracted from a single savegame pass.
type Result struct {
	// GameTime is the in-game clock in seconds at the moment of saving.
	GameTime float64

	Entities    []domain.RawEntityRecord
	Connections []domain.RawConnection
	Orders      []domain.RawOrder
	Trades      []domain.RawTradeEvent
	Money       []domain.RawMoneyEvent

	// SkippedEntries counts log entries dropped because a required
	// attribute was missing or unparseable.
	SkippedEntries int
}

// Extractor performs streaming extraction of savegame files.
type Extractor struct {
	logger *log.Logger
}

// NewExtractor returns an Extractor that logs warnings to the given logger.
// A nil logger silences warnings.
func NewExtractor(logger *log.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractFile opens a gzip-compressed savegame and extracts it.
func (e *Extractor) ExtractFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open savegame %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress savegame %s: %w", path, err)
	}
	defer gz.Close()

	start := time.Now()
	res, err := e.Extract(gz)
	if err != nil {
		return nil, err
	}
	if e.logger != nil {
		e.logger.Printf("processed savegame in %.2f seconds (%d entities, %d trades, %d money entries)",
			time.Since(start).Seconds(), len(res.Entities), len(res.Trades), len(res.Money))
	}
	return res, nil
}

// entityFrame scopes connection and order lookups to the player component
// currently open in the stream. Player components nest (docked ships live
// inside their carrier), so frames form a stack.
type entityFrame struct {
	id    string
	depth int
}

// Extract walks the XML token stream in r.
func (e *Extractor) Extract(r io.Reader) (*Result, error) {
	res := &Result{}

	dec := xml.NewDecoder(r)

	var (
		path []string

		entriesType      string
		entriesCondensed bool

		entityStack []entityFrame

		connType  string
		connID    string
		connDepth int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse savegame xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			path = append(path, el.Name.Local)

			switch {
			case pathIs(path, "savegame", "info", "game"):
				t, ok := floatAttr(el, "time")
				if !ok {
					return nil, errors.New("savegame info carries no game time")
				}
				res.GameTime = t

			case pathIs(path, "savegame", "economylog", "entries"):
				entriesType = attr(el, "type")
				entriesCondensed = attr(el, "condensed") == "1"

			case pathIs(path, "savegame", "economylog", "entries", "log"):
				switch entriesType {
				case "trade":
					e.appendTrade(res, el)
				case "money":
					if !entriesCondensed {
						e.appendMoney(res, el)
					}
				}

			case isPlayerComponent(path, el):
				id := attr(el, "id")
				entityStack = append(entityStack, entityFrame{id: id, depth: len(path)})
				res.Entities = append(res.Entities, domain.RawEntityRecord{
					ID:    id,
					Class: attr(el, "class"),
					Macro: attr(el, "macro"),
					Name:  attr(el, "name"),
					Code:  attr(el, "code"),
				})

			case len(entityStack) > 0 && el.Name.Local == "connection" && isOwnershipConn(attr(el, "connection")):
				connType = attr(el, "connection")
				connID = attr(el, "id")
				connDepth = len(path)

			case len(entityStack) > 0 && connType != "" && el.Name.Local == "connected":
				res.Connections = append(res.Connections, domain.RawConnection{
					OwnerID:      entityStack[len(entityStack)-1].id,
					Type:         connType,
					ConnectionID: connID,
					ConnectedID:  attr(el, "connection"),
				})

			case len(entityStack) > 0 && el.Name.Local == "order" && hasAttr(el, "default") && hasAttr(el, "order"):
				res.Orders = append(res.Orders, domain.RawOrder{
					OwnerID: entityStack[len(entityStack)-1].id,
					Order:   attr(el, "order"),
				})
			}

		case xml.EndElement:
			if n := len(entityStack); n > 0 && entityStack[n-1].depth == len(path) && el.Name.Local == "component" {
				entityStack = entityStack[:n-1]
			}
			if connType != "" && connDepth == len(path) && el.Name.Local == "connection" {
				connType = ""
				connID = ""
				connDepth = 0
			}
			path = path[:len(path)-1]
		}
	}

	if len(res.Trades) == 0 {
		return nil, ErrNoTradeRecords
	}
	return res, nil
}

// appendTrade converts a trade log element. Entries without a price are
// free transfers between player ships and are dropped without a warning.
// Entries missing time or volume are malformed and counted as skipped.
func (e *Extractor) appendTrade(res *Result, el xml.StartElement) {
	if !hasAttr(el, "price") {
		return
	}

	t, okT := floatAttr(el, "time")
	v, okV := floatAttr(el, "v")
	price, okP := floatAttr(el, "price")
	if !okT || !okV || !okP {
		res.SkippedEntries++
		if e.logger != nil {
			e.logger.Printf("warning: skipping malformed trade entry (time=%q v=%q price=%q)",
				attr(el, "time"), attr(el, "v"), attr(el, "price"))
		}
		return
	}

	res.Trades = append(res.Trades, domain.RawTradeEvent{
		Time:   t,
		Seller: attr(el, "seller"),
		Buyer:  attr(el, "buyer"),
		Ware:   attr(el, "ware"),
		Price:  price,
		Volume: v,
	})
}

// appendMoney converts a money log element. The balance value stays a
// pointer so the reconstruction step can tell "absent" from zero.
func (e *Extractor) appendMoney(res *Result, el xml.StartElement) {
	t, ok := floatAttr(el, "time")
	if !ok {
		res.SkippedEntries++
		if e.logger != nil {
			e.logger.Printf("warning: skipping money entry without time (owner=%q type=%q)",
				attr(el, "owner"), attr(el, "type"))
		}
		return
	}

	var value *float64
	if hasAttr(el, "v") {
		v, ok := floatAttr(el, "v")
		if !ok {
			res.SkippedEntries++
			if e.logger != nil {
				e.logger.Printf("warning: skipping money entry with unparseable balance (owner=%q v=%q)",
					attr(el, "owner"), attr(el, "v"))
			}
			return
		}
		value = &v
	}

	res.Money = append(res.Money, domain.RawMoneyEvent{
		Time:    t,
		Type:    attr(el, "type"),
		OwnerID: attr(el, "owner"),
		Value:   value,
		Partner: attr(el, "partner"),
	})
}

// isPlayerComponent reports whether the element opens a player-owned
// component within the universe tree.
func isPlayerComponent(path []string, el xml.StartElement) bool {
	if len(path) < 4 || el.Name.Local != "component" {
		return false
	}
	if path[0] != "savegame" || path[1] != "universe" || path[2] != "component" || path[3] != "connections" {
		return false
	}
	return attr(el, "owner") == "player"
}

func isOwnershipConn(connection string) bool {
	return connection == domain.ConnSubordinates || connection == domain.ConnCommander
}

func pathIs(path []string, want ...string) bool {
	if len(path) != len(want) {
		return false
	}
	for i := range want {
		if path[i] != want[i] {
			return false
		}
	}
	return true
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func hasAttr(el xml.StartElement, name string) bool {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return true
		}
	}
	return false
}

func floatAttr(el xml.StartElement, name string) (float64, bool) {
	raw := attr(el, name)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
