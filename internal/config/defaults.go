package config

// DefaultImageExtensions are the filename extensions treated as images when
// the configuration names none.
var DefaultImageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp"}

// applyDefaults fills unset fields after unmarshalling.
func (c *Config) applyDefaults() {
	if c.Content.Root == "" {
		c.Content.Root = "./notes"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./site"
	}
	if c.Links.StubURL == "" {
		c.Links.StubURL = "/stubs/"
	}
	if len(c.Links.ImageExtensions) == 0 {
		c.Links.ImageExtensions = append([]string(nil), DefaultImageExtensions...)
	}
	if c.Links.Workers <= 0 {
		c.Links.Workers = 4
	}
	if c.Report.Database == "" {
		c.Report.Database = "./notebuilder.db"
	}
	if c.Events.NATSURL == "" {
		c.Events.NATSURL = "nats://127.0.0.1:4222"
	}
	if c.Events.Subject == "" {
		c.Events.Subject = "notebuilder.deadlinks"
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9100"
	}
}
