package jobevent

import "go.uber.org/fx"

// PublisherModule is used by the API process.
var PublisherModule = fx.Module("jobevent.publisher",
	fx.Provide(NewPublisher),
)

// ConsumerModule is used by the worker process.
var ConsumerModule = fx.Module("jobevent.consumer",
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
