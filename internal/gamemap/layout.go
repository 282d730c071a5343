package gamemap

import (
	"fmt"
	"math/rand"
	"strings"
)

// Charset maps text-map characters to tiles and spawns.
type Charset struct {
	Wall, Door, Chest, Enemy, Player, Empty, Win rune
}

// CharsetFromStrings builds a Charset from single-character strings. An
// empty string maps to the zero rune, which never matches a map cell.
func CharsetFromStrings(wall, door, chest, enemy, player, empty, win string) Charset {
	first := func(s string) rune {
		for _, r := range s {
			return r
		}
		return 0
	}
	return Charset{
		Wall:   first(wall),
		Door:   first(door),
		Chest:  first(chest),
		Enemy:  first(enemy),
		Player: first(player),
		Empty:  first(empty),
		Win:    first(win),
	}
}

// Layout is a freshly built map plus the spawn points found while building
// it. Spawns are not yet occupied on Map.
type Layout struct {
	Map         *GameMap
	PlayerSpawn Coord
	EnemySpawns []Coord
}

// Parse builds a map from text rows. Row i is placed at Y = origin.Y+i and
// column j at X = origin.X+j, where the origin centres the map on
// (centerX, centerY). Unknown characters are left empty. The first player
// character wins; later ones are ignored.
func Parse(lines []string, centerX, centerY, tileSize float64, cs Charset) (*Layout, error) {
	lines = normalizeLines(lines)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: map has no rows", ErrMapResource)
	}
	width := 0
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
		width = max(width, len(rows[i]))
	}
	height := len(rows)

	gm := New(width, height, OriginFor(width, height, centerX, centerY), tileSize)
	lay := &Layout{Map: gm}
	havePlayer := false

	for row, runes := range rows {
		for col, r := range runes {
			c := gm.LocalToCell(col, row)
			switch r {
			case cs.Wall:
				gm.SetTile(c, TileWall)
			case cs.Door:
				gm.SetTile(c, TileDoor)
			case cs.Chest:
				gm.SetTile(c, TileChest)
			case cs.Win:
				gm.SetTile(c, TileWin)
			case cs.Enemy:
				lay.EnemySpawns = append(lay.EnemySpawns, c)
			case cs.Player:
				if !havePlayer {
					lay.PlayerSpawn = c
					havePlayer = true
				}
			}
		}
	}
	if !havePlayer {
		return nil, fmt.Errorf("%w: map has no player spawn %q", ErrMapResource, cs.Player)
	}
	return lay, nil
}

// normalizeLines strips carriage returns, turns tabs into spaces and drops
// trailing blank rows.
func normalizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimRight(l, "\r")
		out = append(out, strings.ReplaceAll(l, "\t", " "))
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Cumulative thresholds for interior cells of a random map, checked in
// this order against one roll.
const (
	chanceWall  = 0.10
	chanceEnemy = 0.15
	chanceChest = 0.18
	chanceDoor  = 0.20
)

// Generate builds a random width×height map at origin. The border is
// always wall; each interior cell is rolled once against the cumulative
// thresholds above. The player spawns at (2,2) and the win tile sits at
// (width-3, height-3), both relative to origin, overriding whatever was
// rolled there.
func Generate(width, height int, origin Coord, tileSize float64, rng *rand.Rand) *Layout {
	gm := New(width, height, origin, tileSize)
	enemyAt := make(map[Coord]bool)

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			c := gm.LocalToCell(col, row)
			if col == 0 || col == width-1 || row == 0 || row == height-1 {
				gm.SetTile(c, TileWall)
				continue
			}
			roll := rng.Float64()
			switch {
			case roll < chanceWall:
				gm.SetTile(c, TileWall)
			case roll < chanceEnemy:
				enemyAt[c] = true
			case roll < chanceChest:
				gm.SetTile(c, TileChest)
			case roll < chanceDoor:
				gm.SetTile(c, TileDoor)
			}
		}
	}

	spawn := origin.Add(Coord{2, 2})
	gm.SetTile(spawn, TileEmpty)
	delete(enemyAt, spawn)

	win := origin.Add(Coord{width - 3, height - 3})
	gm.SetTile(win, TileWin)
	delete(enemyAt, win)

	lay := &Layout{Map: gm, PlayerSpawn: spawn}
	// Row-major order keeps spawn order reproducible for a given seed.
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if c := gm.LocalToCell(col, row); enemyAt[c] {
				lay.EnemySpawns = append(lay.EnemySpawns, c)
			}
		}
	}
	return lay
}
