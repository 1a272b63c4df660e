package di

import (
	"astrapix-server/internal/config"
	"astrapix-server/internal/integration/gateway"
	"astrapix-server/internal/integration/imagegen"
	"astrapix-server/internal/integration/oauth"
)

// 外部服务客户端按当前配置快照构建。

func provideGateway() gateway.Client {
	return gateway.NewRazorpayClient(config.Get().Payment)
}

func provideGenerator() imagegen.Generator {
	return imagegen.NewOpenAIGenerator(config.Get().ImageGen)
}

func provideOAuth() oauth.Provider {
	return oauth.NewGoogleProvider(config.Get().Google)
}
