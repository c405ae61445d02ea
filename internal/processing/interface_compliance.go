package processing

import (
	"cr_war_stats/internal/cache"
	"cr_war_stats/internal/notify"
	"cr_war_stats/internal/publish"
	"cr_war_stats/internal/royale"
	"cr_war_stats/internal/sheets"
	"cr_war_stats/internal/store"
)

// Compile-time interface compliance checks
// These will cause compilation errors if the types don't implement the interfaces

var (
	_ RoyaleClientInterface     = (*royale.Client)(nil)
	_ ClanNameResolverInterface = (*cache.NameResolver)(nil)
	_ StoreInterface            = (*store.Store)(nil)
	_ ReportExporterInterface   = (*sheets.ReportExporter)(nil)
	_ MappingReaderInterface    = (*sheets.MappingReader)(nil)
	_ NotifierInterface         = (*notify.DiscordWebhook)(nil)
	_ PublisherInterface        = (*publish.SSHPublisher)(nil)
)
