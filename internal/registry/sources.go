package registry

import (
	_ "github.com/Pedgin/NS-ProCon-Converter/input/keyboard" // Register keyboard source
	_ "github.com/Pedgin/NS-ProCon-Converter/input/mouse"    // Register mouse source
	_ "github.com/Pedgin/NS-ProCon-Converter/input/terminal" // Register terminal source
)
