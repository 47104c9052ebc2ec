package proccontext

import "testing"

func TestDetect_InstallMode(t *testing.T) {
	t.Setenv(InstallModeEnv, "1")

	ctx := Detect()
	if !ctx.InstallMode {
		t.Fatalf("expected InstallMode=true when %s is set", InstallModeEnv)
	}
}

func TestDetect_NoInstallModeByDefault(t *testing.T) {
	t.Setenv(InstallModeEnv, "")

	ctx := Detect()
	if ctx.InstallMode {
		t.Fatalf("expected InstallMode=false when %s is unset", InstallModeEnv)
	}
}

func TestDetect_LifecycleEvent(t *testing.T) {
	t.Setenv(LifecycleEventEnv, "postinstall")

	ctx := Detect()
	if !ctx.IsDependencyLifecycle {
		t.Fatalf("expected IsDependencyLifecycle=true when %s is set", LifecycleEventEnv)
	}

	if ctx.LifecycleEventName != "postinstall" {
		t.Fatalf("expected LifecycleEventName=postinstall, got %q", ctx.LifecycleEventName)
	}
}
