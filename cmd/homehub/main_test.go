package main

import "testing"

func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("HOMEHUB_CONFIG", "")
	if got := getConfigPath(); got != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", got, defaultConfigPath)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("HOMEHUB_CONFIG", "/etc/homehub/config.yaml")
	if got := getConfigPath(); got != "/etc/homehub/config.yaml" {
		t.Errorf("getConfigPath() = %q, want env override", got)
	}
}
