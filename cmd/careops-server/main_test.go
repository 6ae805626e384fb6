package main

import "testing"

func TestCommandTree(t *testing.T) {
	migrate := migrateCmd()
	for _, sub := range []string{"up", "status"} {
		found := false
		for _, c := range migrate.Commands() {
			if c.Name() == sub {
				found = true
			}
		}
		if !found {
			t.Errorf("migrate is missing subcommand %q", sub)
		}
	}

	if len(tenantCmd().Commands()) == 0 {
		t.Error("tenant has no subcommands")
	}
	if len(userCmd().Commands()) == 0 {
		t.Error("user has no subcommands")
	}
	if serveCmd().RunE == nil {
		t.Error("serve has no run function")
	}
}

func TestUserCreateRequiresFlags(t *testing.T) {
	cmd := userCmd()
	cmd.SetArgs([]string{"create"})
	if err := cmd.Execute(); err == nil {
		t.Error("user create without flags must fail")
	}
}
