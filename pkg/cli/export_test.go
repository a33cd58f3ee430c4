package cli

var RunAssess = runAssess
