package help

// Reference is the markdown shown by ":help".
const Reference = `# modal

## Normal mode

| Keys | Action |
|---|---|
| h j k l, arrows | move left, down, up, right |
| 0 ^ | start of line |
| $ | end of line |
| w b e | next word, previous word, end of word |
| f{c} F{c} | find character forward, backward |
| i a | insert before, after the cursor |
| x | delete character |
| d{motion} | delete over a motion |
| dd D | delete line, delete to end of line |
| c{motion} C | change over a motion, change to end of line |
| "{r} | use register r (a-z, ", +) for the next delete |
| : | command line |
| esc | cancel pending keys |

## Insert mode

Type to insert. **enter** splits the line, **backspace** joins lines at the
start of a line, **esc** returns to Normal mode.

## Commands

| Command | Action |
|---|---|
| :w [path] | write, or write to path |
| :w! | write even if the file changed on disk |
| :q :q! | quit, quit discarding changes |
| :wq :x | write and quit |
| :wq! :x! | write even if changed on disk, then quit |
| :e path | open a file |
| :e! | reload the file, discarding changes |
| :bn :bp | next, previous buffer |
| :bd[!] | close buffer |
| :ls | list buffers |
| :reg | show registers |
| :set number, :set nonumber | toggle line numbers |
| :mkconfig | save UI settings to the config file |
| :messages | show the log |
| :help | this page |

**ctrl+c** quits immediately without saving.
`
