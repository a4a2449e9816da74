package app

import (
	"github.com/specialistvlad/wfscript/internal/registry"
	"github.com/specialistvlad/wfscript/modules/comfyroll"
	"github.com/specialistvlad/wfscript/modules/core"
)

// coreModules is the definitive list of all schema catalogs that are
// compiled into the wfscript binary.
var coreModules = []registry.Module{
	&core.Module{},
	&comfyroll.Module{},
}
