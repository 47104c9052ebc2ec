//go:build windows

package process

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/windows"
)

var (
	modntdll             = windows.NewLazySystemDLL("ntdll.dll")
	procNtSuspendProcess = modntdll.NewProc("NtSuspendProcess")
	procNtResumeProcess  = modntdll.NewProc("NtResumeProcess")
)

// pauseProcess suspends cmd's process using the Windows NT API. Threads
// created after suspension are not suspended, which is acceptable for
// the brief pause used during an interactive confirmation prompt.
func pauseProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	handle, err := windows.OpenProcess(windows.PROCESS_SUSPEND_RESUME, false, uint32(cmd.Process.Pid))
	if err != nil {
		return fmt.Errorf("failed to open process for suspension: %w", err)
	}
	defer windows.CloseHandle(handle)

	if r1, _, _ := procNtSuspendProcess.Call(uintptr(handle)); r1 != 0 {
		return fmt.Errorf("NtSuspendProcess failed with NTSTATUS=0x%.8X", r1)
	}
	return nil
}

func resumeProcess(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	handle, err := windows.OpenProcess(windows.PROCESS_SUSPEND_RESUME, false, uint32(cmd.Process.Pid))
	if err != nil {
		return fmt.Errorf("failed to open process for resumption: %w", err)
	}
	defer windows.CloseHandle(handle)

	if r1, _, _ := procNtResumeProcess.Call(uintptr(handle)); r1 != 0 {
		return fmt.Errorf("NtResumeProcess failed with NTSTATUS=0x%.8X", r1)
	}
	return nil
}
