// Package blockids is the external collaborator spec §6 describes: a
// per-protocol Block -> global palette id mapping, kept separate from
// pkg/world so a richer, generated table could replace it without touching
// chunk serialization at all.
package blockids

import "github.com/ironclad-mc/mcserver/pkg/world"

// order is a fixed, ordered vocabulary covering the common block names a
// WorldEdit schematic is likely to carry. DefaultCatalog assigns each name
// the same global id across every protocol, which is enough to exercise
// direct/indirect palette mode and bit-packing across eras even though it
// isn't the real per-version Minecraft numbering spec §6's external
// generator would supply.
var order = []world.Block{
	world.Air,
	"minecraft:bedrock", "minecraft:stone", "minecraft:dirt",
	"minecraft:grass_block", "minecraft:cobblestone", "minecraft:sand",
	"minecraft:gravel", "minecraft:oak_log", "minecraft:oak_leaves",
	"minecraft:glass", "minecraft:tall_grass", "minecraft:dandelion",
	"minecraft:poppy", "minecraft:torch", "minecraft:wheat",
	"minecraft:snow", "minecraft:water", "minecraft:lava",
	"minecraft:coal_ore", "minecraft:diamond_ore", "minecraft:lapis_ore",
	"minecraft:redstone_ore", "minecraft:clay", "minecraft:glowstone",
	"minecraft:stone_bricks", "minecraft:sandstone", "minecraft:chest",
	"minecraft:farmland", "minecraft:oak_planks",
	"minecraft:obsidian", "minecraft:bookshelf", "minecraft:mossy_cobblestone",
	"minecraft:cave_air", "minecraft:void_air",
}

// DefaultCatalog builds the Catalog used when no richer block-id generator
// is wired in: every protocol in protocols gets the same BlockIDFunc,
// grounded on the same vocabulary.
func DefaultCatalog(protocols []int32) *world.Catalog {
	ids := make(map[world.Block]int32, len(order))
	for i, b := range order {
		ids[b] = int32(i)
	}
	fn := func(b world.Block) (int32, bool) {
		id, ok := ids[b]
		return id, ok
	}

	cat := world.NewCatalog()
	for _, p := range protocols {
		cat.Register(p, fn)
	}
	return cat
}
