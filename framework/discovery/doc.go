// Package discovery derives class definitions from struct tags, the Go
// counterpart of injection annotations.
//
//	type Controller struct {
//	    _ struct{} `scope:"prototype"`
//
//	    Users  UserRepository `inject:""`              // by type
//	    Mailer Mailer         `inject:"mailer,lazy"`   // named, lazy
//	}
//
//	func (c *Controller) InjectSetters() map[string]string {
//	    return map[string]string{"SetClock": "clock"}
//	}
//
// Register the class, then add the source to the container:
//
//	class.MustRegister[*Controller](registry)
//	c := container.New(
//	    container.WithClasses(registry),
//	    container.WithDefinitionSource(discovery.NewSource(registry)),
//	)
//	ctrl, err := c.Get(class.KeyOf[Controller]())
package discovery
