package videoworker

/*
	This package contains the core part of the record downloading process
	* Launcher / Driver for the download process: videoProcesser.go
	* Calling plugins: plugin_manager.go
	* Remuxing the result: videocodec.go
	* Several DownloadProviders: downloader package
*/
