package project

var (
	description = "runtimeclass-admission-controller injects a runtime class into workloads."
	gitSHA      = "n/a"
	name        = "runtimeclass-admission-controller"
	source      = "https://github.com/giantswarm/runtimeclass-admission-controller"
	version     = "0.1.0-dev"
)

func Description() string {
	return description
}

func GitSHA() string {
	return gitSHA
}

func Name() string {
	return name
}

func Source() string {
	return source
}

func Version() string {
	return version
}
