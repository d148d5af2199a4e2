package editorview

import (
	"fmt"
	"strings"

	"github.com/zjrosen/modal/internal/config"
	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/log"
)

type overlayRequest int

const (
	showNothing overlayRequest = iota
	showHelp
	showMessages
)

// commands handles the ":" commands that change what the screen shows. It
// is shared by pointer so settings survive Model copies.
type commands struct {
	ui         config.UIConfig
	configPath string
	request    overlayRequest
}

// HandleCommand implements editor.CommandHandler.
func (c *commands) HandleCommand(_ *editor.Buffer, cmd string) (string, error) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return "", editor.ErrUnknownCommand
	}

	switch fields[0] {
	case "set", "se":
		if len(fields) != 2 {
			return "", fmt.Errorf("usage: :set number | nonumber")
		}
		return c.set(fields[1])
	case "mkconfig", "mkc":
		if c.configPath == "" {
			return "", fmt.Errorf("no config file in use")
		}
		if err := config.SaveUI(c.configPath, c.ui); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to save UI settings", err, "path", c.configPath)
			return "", err
		}
		return fmt.Sprintf("UI settings written to %s", c.configPath), nil
	case "help", "h":
		c.request = showHelp
		return "", nil
	case "messages", "mes":
		c.request = showMessages
		return "", nil
	}
	return "", editor.ErrUnknownCommand
}

func (c *commands) set(option string) (string, error) {
	switch option {
	case "number", "nu":
		c.ui.LineNumbers = true
	case "nonumber", "nonu":
		c.ui.LineNumbers = false
	case "number!", "nu!", "invnumber", "invnu":
		c.ui.LineNumbers = !c.ui.LineNumbers
	default:
		return "", fmt.Errorf("unknown option: %s", option)
	}
	return "", nil
}

// takeRequest returns and clears the pending overlay request.
func (c *commands) takeRequest() overlayRequest {
	r := c.request
	c.request = showNothing
	return r
}
