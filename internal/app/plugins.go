package app

import (
	"github.com/vk/opmix/internal/plugin"
	"github.com/vk/opmix/modules/docindex"
	"github.com/vk/opmix/modules/httpremote"
	"github.com/vk/opmix/modules/memstore"
	"github.com/vk/opmix/modules/yamlstore"
)

// corePlugins is the definitive list of all plugins that are compiled
// into the opmix binary. Registration order is composition order.
var corePlugins = []plugin.Factory{
	&memstore.Plugin{},
	&docindex.Plugin{},
	&yamlstore.Plugin{},
	&httpremote.Plugin{},
}
