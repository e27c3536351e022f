package debugtui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/oplang/ops/pkg/ops"
)

// TUI is the text user interface around a Debugger: an instruction list
// with the program counter highlighted, an operand stack panel, a symbol
// table panel, and a command input, scaled down from a full register and
// disassembly debugger to the handful of panels this VM actually has.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	MainLayout   *tview.Flex
	CodeView     *tview.TextView
	StackView    *tview.TextView
	SymbolsView  *tview.TextView
	OutputView   *tview.TextView
	CommandInput *tview.InputField
}

// NewTUI builds a TUI around dbg.
func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger: dbg,
		App:      tview.NewApplication(),
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

func (t *TUI) initializeViews() {
	t.CodeView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.CodeView.SetBorder(true).SetTitle(" Instructions ")

	t.StackView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.StackView.SetBorder(true).SetTitle(" Stack ")

	t.SymbolsView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.SymbolsView.SetBorder(true).SetTitle(" Symbols ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command (step/continue/break <n>/print <name>/quit) ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	rightPanel := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.StackView, 0, 1, false).
		AddItem(t.SymbolsView, 0, 1, false)

	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.CodeView, 0, 2, false).
		AddItem(rightPanel, 0, 1, false)

	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 6, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			t.executeCommand("step")
			return nil
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	t.CommandInput.SetText("")
	if cmd != "" {
		t.executeCommand(cmd)
	}
}

func (t *TUI) executeCommand(cmd string) {
	err := t.Debugger.ExecuteCommand(cmd)
	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if out := t.Debugger.GetOutput(); out != "" {
		t.WriteOutput(out)
	}

	fields := strings.Fields(strings.TrimSpace(cmd))
	if len(fields) > 0 && (fields[0] == "quit" || fields[0] == "q") {
		t.App.Stop()
		return
	}

	t.RefreshAll()
}

// WriteOutput appends text to the output panel and scrolls to the end.
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text))
	t.OutputView.ScrollToEnd()
}

// RefreshAll redraws every panel from current VM state.
func (t *TUI) RefreshAll() {
	t.updateCodeView()
	t.updateStackView()
	t.updateSymbolsView()
	t.App.Draw()
}

func (t *TUI) updateCodeView() {
	vm := t.Debugger.VM
	pc := vm.PC()
	code := t.Debugger.Code

	var lines []string
	for i, ins := range code {
		marker := "  "
		color := "white"
		if i == pc {
			marker = "->"
			color = "yellow"
		}
		if t.Debugger.Breakpoints[i] {
			marker = "* "
		}
		lines = append(lines, fmt.Sprintf("[%s]%s%4d: %s[white]", color, marker, i, ins.String()))
	}
	if vm.Done() {
		lines = append(lines, "[green]-- halted --[white]")
	}

	t.CodeView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateStackView() {
	stack := t.Debugger.VM.Stack()
	var lines []string
	for i := len(stack) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%3d: %s", i, stack[i].String()))
	}
	if len(lines) == 0 {
		lines = append(lines, "(empty)")
	}
	t.StackView.SetText(strings.Join(lines, "\n"))
}

func (t *TUI) updateSymbolsView() {
	symbols := t.Debugger.VM.Symbols()
	var lines []string
	for name, val := range symbols {
		lines = append(lines, fmt.Sprintf("%s = %s", name, val.String()))
	}
	if len(lines) == 0 {
		lines = append(lines, "(none)")
	}
	t.SymbolsView.SetText(strings.Join(lines, "\n"))
}

// Run launches the TUI event loop. It returns a CLI exit code: 0 on a
// normal quit, 1 if the application failed to start.
func Run(vm *ops.VM, code []ops.Instruction) int {
	dbg := New(vm, code)
	tui := NewTUI(dbg)
	tui.RefreshAll()

	if err := tui.App.SetRoot(tui.MainLayout, true).EnableMouse(true).Run(); err != nil {
		fmt.Println(err)
		return 1
	}
	return 0
}
