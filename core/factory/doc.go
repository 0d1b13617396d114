// Package factory is a small generic registry that builds modules, such as
// metrics sinks, from configuration. A module is declared by a type name
// and a map of raw settings that its factory decodes into a typed struct.
//
//	sinks := factory.NewRegistry[Sink]()
//	_ = sinks.Register("influx", func(conf map[string]any) (Sink, error) {
//	    var c struct{ URL string `json:"url"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewInfluxSink(c.URL), nil
//	})
//	s, err := sinks.Create(factory.ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://db:8086"}})
package factory
