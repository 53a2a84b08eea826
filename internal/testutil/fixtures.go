package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes files (root-relative slash path → content) under a fresh
// temporary directory and returns its path.
//
// Postcondition: every parent directory exists; the tree is removed when t ends.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}
	return root
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t testing.TB, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// GameTree returns a minimal game data tree: one item per tier, one character
// class with an inline skill and a referenced skill file, a projectile unit
// and a buff file.
//
// Class tags are <string name="class"> children. Only the first child of a
// <unit> takes its class from the attribute.
func GameTree() map[string]string {
	files := map[string]string{
		"buffs/common.sval": `<svals>
	<dict name="Haste">
		<float name="speed-mul">1.5</float>
		<int name="duration">3000</int>
	</dict>
</svals>`,
		"units/arrow.unit": `<unit>
	<dict class="Projectile">
		<float name="speed">12</float>
		<dict name="effect"><string name="class">Damage</string><int name="physical">7</int></dict>
	</dict>
</unit>`,
		"players/ranger/shoot.sval": `<svals>
	<string name="name">Shoot</string>
	<array name="skills">
		<dict>
			<string name="class">Skills::ShootProjectile</string>
			<string name="projectile">units/arrow.unit</string>
			<int name="cooldown">800</int>
		</dict>
	</array>
</svals>`,
		"players/ranger/char.sval": `<svals>
	<int name="base-health">80</int>
	<float name="level-health">6.5</float>
	<array name="skills">
		<dict>
			<string name="name">Swing</string>
			<array name="skills">
				<dict>
					<string name="class">Skills::MeleeSwing</string>
					<dict name="effect"><string name="class">Damage</string><int name="physical">10</int></dict>
				</dict>
			</array>
		</dict>
		<string>players/ranger/shoot.sval</string>
	</array>
</svals>`,
	}
	for _, tier := range []string{"common", "uncommon", "rare", "epic", "legendary"} {
		files["items/"+tier+".sval"] = `<svals>
	<dict name="` + tier + `-ring">
		<string name="name">` + tier + ` ring</string>
		<string name="quality">` + tier + `</string>
		<int name="cost">10</int>
		<dict name="modifier"><string name="class">Armor</string><int name="armor">5</int></dict>
	</dict>
	<dict name="` + tier + `-amulet">
		<string name="name">` + tier + ` amulet</string>
		<dict name="modifier">
			<string name="class">TriggerEffect</string>
			<dict name="effect"><string name="class">ApplyBuff</string><string name="buff">buffs/common.sval:Haste</string></dict>
		</dict>
	</dict>
</svals>`
	}
	return files
}
